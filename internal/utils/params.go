package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/orgnotes/orgnotes/internal/authz"
)

// GetNoteID parses the :id route parameter. A non-numeric id can never match a note,
// so it is reported as not found.
func GetNoteID(ctx *gin.Context) (uint, error) {
	noteIDStr := ctx.Param("id")

	if noteIDStr == "" {
		return 0, authz.NotFound("note_id", "No Note matches the given query.")
	}

	noteID, err := strconv.ParseUint(noteIDStr, 10, 32)

	if err != nil {
		return 0, authz.NotFound("note_id", "No Note matches the given query.")
	}

	return uint(noteID), nil
}

// GetUsername returns the :username route parameter.
func GetUsername(ctx *gin.Context) (string, error) {
	username := ctx.Param("username")

	if username == "" {
		return "", authz.NotFound("username", "User not found.")
	}

	return username, nil
}
