package router_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/orgnotes/orgnotes/internal/auth"
	"github.com/orgnotes/orgnotes/internal/models"
)

var _ = Describe("Router", func() {
	var app *testApp

	BeforeEach(func() {
		app = newTestApp()
	})

	Describe("POST /api/user/register/", func() {
		It("creates the organization and returns tokens carrying role and organization", func() {
			w := app.do(http.MethodPost, "/api/user/register/", "", map[string]string{
				"username":          "alice",
				"email":             "alice@example.com",
				"password":          "s3cret",
				"organization_name": "Acme",
				"industry":          "Logistics",
			})
			Expect(w.Code).To(Equal(http.StatusCreated))

			var resp map[string]interface{}
			decode(w, &resp)
			Expect(resp).To(HaveKeyWithValue("username", "alice"))
			Expect(resp).To(HaveKeyWithValue("role", "admin"))
			Expect(resp).To(HaveKeyWithValue("organization", "Acme"))
			Expect(resp).To(HaveKey("refresh"))

			claims, err := app.tokens.Verify(resp["access"].(string), auth.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Role).To(Equal("admin"))
			Expect(claims.Organization).NotTo(BeNil())
			Expect(*claims.Organization).To(Equal("Acme"))
		})

		It("rejects a taken organization name without creating a user", func() {
			app.register("alice", "Acme")

			w := app.do(http.MethodPost, "/api/user/register/", "", map[string]string{
				"username":          "mallory",
				"password":          "pw",
				"organization_name": "Acme",
			})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(errorCode(w)).To(Equal("duplicate organization"))

			var count int64
			Expect(app.db.Model(&models.User{}).Where("username = ?", "mallory").Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})

		It("rejects a malformed email", func() {
			w := app.do(http.MethodPost, "/api/user/register/", "", map[string]string{
				"username":          "alice",
				"email":             "Alice <alice@example.com>",
				"password":          "pw",
				"organization_name": "Acme",
			})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(errorCode(w)).To(Equal("invalid"))
		})

		It("rejects a body missing required fields", func() {
			w := app.do(http.MethodPost, "/api/user/register/", "", map[string]string{"username": "alice"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(errorCode(w)).To(Equal("invalid"))
		})
	})

	Describe("token endpoints", func() {
		BeforeEach(func() {
			admin := app.register("alice", "Acme")
			app.createUser(admin, "bob", "agent")
		})

		It("issues a pair with the user summary", func() {
			w := app.do(http.MethodPost, "/api/token/", "", map[string]string{
				"username": "bob",
				"password": "password-bob",
			})
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]interface{}
			decode(w, &resp)
			Expect(resp).To(HaveKeyWithValue("username", "bob"))
			Expect(resp).To(HaveKeyWithValue("email", "bob@example.com"))
			Expect(resp).To(HaveKeyWithValue("role", "agent"))
			Expect(resp).To(HaveKeyWithValue("organization", "Acme"))
			Expect(resp).To(HaveKey("access"))
			Expect(resp).To(HaveKey("refresh"))
		})

		It("rejects bad credentials", func() {
			w := app.do(http.MethodPost, "/api/token/", "", map[string]string{
				"username": "bob",
				"password": "nope",
			})
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(errorCode(w)).To(Equal("unauthorized"))
		})

		It("refreshes an access token", func() {
			w := app.do(http.MethodPost, "/api/token/", "", map[string]string{
				"username": "bob",
				"password": "password-bob",
			})
			var pair map[string]interface{}
			decode(w, &pair)

			w = app.do(http.MethodPost, "/api/token/refresh/", "", map[string]string{"refresh": pair["refresh"].(string)})
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]interface{}
			decode(w, &resp)
			Expect(resp).To(HaveKey("access"))

			claims, err := app.tokens.Verify(resp["access"].(string), auth.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Role).To(Equal("agent"))

			w = app.do(http.MethodPost, "/api/token/refresh/", "", map[string]string{"refresh": pair["access"].(string)})
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("authentication", func() {
		It("requires a bearer token", func() {
			w := app.do(http.MethodGet, "/api/notes/", "", nil)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))

			w = app.do(http.MethodGet, "/api/notes/", "garbage", nil)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("organization user management", func() {
		var alice, bob, dave string

		BeforeEach(func() {
			alice = app.register("alice", "Acme")
			bob = app.createUser(alice, "bob", "agent")
			app.createUser(alice, "carol", "")
			dave = app.register("dave", "Globex")
		})

		It("creates users as clients by default in the admin's organization", func() {
			w := app.do(http.MethodPost, "/api/user/create_new/", alice, map[string]string{
				"username": "erin",
				"email":    "erin@example.com",
				"password": "pw",
			})
			Expect(w.Code).To(Equal(http.StatusCreated))

			var resp map[string]interface{}
			decode(w, &resp)
			Expect(resp).To(HaveKeyWithValue("username", "erin"))
			Expect(resp).To(HaveKeyWithValue("email", "erin@example.com"))
			Expect(resp).To(HaveKeyWithValue("role", "client"))
			Expect(resp).To(HaveKeyWithValue("organization", "Acme"))
		})

		It("refuses non-admins on every admin route", func() {
			Expect(app.do(http.MethodPost, "/api/user/create_new/", bob, map[string]string{"username": "x", "password": "pw"}).Code).
				To(Equal(http.StatusForbidden))
			Expect(app.do(http.MethodDelete, "/api/user/delete/carol/", bob, nil).Code).
				To(Equal(http.StatusForbidden))
			Expect(app.do(http.MethodPatch, "/api/user/update/carol/", bob, map[string]string{"email": "x@example.com"}).Code).
				To(Equal(http.StatusForbidden))
			Expect(app.do(http.MethodGet, "/api/organization/users/", bob, nil).Code).
				To(Equal(http.StatusForbidden))

			var count int64
			Expect(app.db.Model(&models.User{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(4)))
		})

		It("refuses to create another admin", func() {
			w := app.do(http.MethodPost, "/api/user/create_new/", alice, map[string]string{
				"username": "erin",
				"password": "pw",
				"role":     "admin",
			})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("lists the members of the caller's organization only", func() {
			w := app.do(http.MethodGet, "/api/organization/users/", alice, nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var users []map[string]interface{}
			decode(w, &users)
			Expect(users).To(HaveLen(3))

			var names []string
			for _, u := range users {
				names = append(names, u["username"].(string))
				Expect(u).To(HaveKeyWithValue("organization_name", "Acme"))
				Expect(u).To(HaveKey("id"))
				Expect(u).To(HaveKey("role"))
				Expect(u).To(HaveKey("email"))
			}
			Expect(names).To(ConsistOf("alice", "bob", "carol"))
		})

		It("updates username and email with PUT and PATCH", func() {
			w := app.do(http.MethodPut, "/api/user/update/carol/", alice, map[string]string{
				"username": "caroline",
				"email":    "caroline@example.com",
			})
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]string
			decode(w, &resp)
			Expect(resp).To(Equal(map[string]string{"username": "caroline", "email": "caroline@example.com"}))

			w = app.do(http.MethodPatch, "/api/user/update/caroline/", alice, map[string]string{"email": "c@example.com"})
			Expect(w.Code).To(Equal(http.StatusOK))
			decode(w, &resp)
			Expect(resp).To(HaveKeyWithValue("username", "caroline"))
			Expect(resp).To(HaveKeyWithValue("email", "c@example.com"))
		})

		DescribeTable("rejected updates",
			func(caller func() string, path string, status int) {
				w := app.do(http.MethodPatch, path, caller(), map[string]string{"email": "changed@example.com"})
				Expect(w.Code).To(Equal(status))

				var carol models.User
				Expect(app.db.Where("username = ?", "carol").First(&carol).Error).To(Succeed())
				Expect(carol.Email).To(Equal("carol@example.com"))
			},
			Entry("missing user", func() string { return alice }, "/api/user/update/nobody/", http.StatusNotFound),
			Entry("other organization", func() string { return dave }, "/api/user/update/carol/", http.StatusForbidden),
			Entry("self", func() string { return alice }, "/api/user/update/alice/", http.StatusForbidden),
		)

		DescribeTable("invalid update bodies are checked after the target",
			func(caller func() string, path string, status int) {
				w := app.do(http.MethodPatch, path, caller(), map[string]string{"email": "not-an-email"})
				Expect(w.Code).To(Equal(status))
			},
			Entry("missing user", func() string { return alice }, "/api/user/update/nobody/", http.StatusNotFound),
			Entry("other organization", func() string { return dave }, "/api/user/update/carol/", http.StatusForbidden),
			Entry("self", func() string { return alice }, "/api/user/update/alice/", http.StatusForbidden),
			Entry("member", func() string { return alice }, "/api/user/update/carol/", http.StatusBadRequest),
		)

		DescribeTable("rejected deletions",
			func(caller func() string, path string, status int) {
				w := app.do(http.MethodDelete, path, caller(), nil)
				Expect(w.Code).To(Equal(status))

				var count int64
				Expect(app.db.Model(&models.User{}).Count(&count).Error).To(Succeed())
				Expect(count).To(Equal(int64(4)))
			},
			Entry("missing user", func() string { return alice }, "/api/user/delete/nobody/", http.StatusNotFound),
			Entry("other organization", func() string { return dave }, "/api/user/delete/carol/", http.StatusForbidden),
			Entry("self", func() string { return alice }, "/api/user/delete/alice/", http.StatusBadRequest),
		)

		It("deletes a member", func() {
			w := app.do(http.MethodDelete, "/api/user/delete/carol/", alice, nil)
			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(w.Body.Len()).To(BeZero())
		})
	})

	Describe("notes", func() {
		var alice, bob string

		BeforeEach(func() {
			alice = app.register("alice", "Acme")
			bob = app.createUser(alice, "bob", "client")
		})

		It("ignores an author supplied in the body", func() {
			w := app.do(http.MethodPost, "/api/notes/", bob, map[string]string{
				"title":   "t1",
				"content": "hello",
				"author":  "alice",
			})
			Expect(w.Code).To(Equal(http.StatusCreated))

			var note map[string]interface{}
			decode(w, &note)
			Expect(note).To(HaveKeyWithValue("author", "bob"))
			Expect(note).To(HaveKeyWithValue("title", "t1"))
			Expect(note).To(HaveKeyWithValue("content", "hello"))
			Expect(note).To(HaveKey("id"))

			var stored models.Note
			Expect(app.db.First(&stored, uint(note["id"].(float64))).Error).To(Succeed())
			Expect(stored.Author).To(Equal("bob"))
		})

		It("rejects a note without a title", func() {
			w := app.do(http.MethodPost, "/api/notes/", bob, map[string]string{"content": "hello"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(errorCode(w)).To(Equal("invalid"))
		})

		It("hides other users' notes", func() {
			w := app.do(http.MethodPost, "/api/notes/", bob, map[string]string{"title": "t1", "content": "hello"})
			var note map[string]interface{}
			decode(w, &note)
			id := strconv.Itoa(int(note["id"].(float64)))

			w = app.do(http.MethodDelete, "/api/notes/delete/"+id, alice, nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))

			w = app.do(http.MethodDelete, "/api/notes/delete/not-a-number", bob, nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))

			w = app.do(http.MethodDelete, "/api/notes/delete/"+id, bob, nil)
			Expect(w.Code).To(Equal(http.StatusNoContent))
		})
	})

	It("runs the organization lifecycle end to end", func() {
		alice := app.register("alice", "Acme")
		bob := app.createUser(alice, "bob", "")

		w := app.do(http.MethodPost, "/api/notes/", bob, map[string]string{"title": "t1", "content": "first"})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var notes []map[string]interface{}

		w = app.do(http.MethodGet, "/api/notes/", alice, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		decode(w, &notes)
		Expect(notes).To(BeEmpty())

		w = app.do(http.MethodGet, "/api/notes/", bob, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		decode(w, &notes)
		Expect(notes).To(HaveLen(1))
		Expect(notes[0]).To(HaveKeyWithValue("title", "t1"))

		w = app.do(http.MethodDelete, "/api/user/delete/bob/", alice, nil)
		Expect(w.Code).To(Equal(http.StatusNoContent))

		var stored []models.Note
		Expect(app.db.Where("author = ?", "bob").Find(&stored).Error).To(Succeed())
		Expect(stored).To(HaveLen(1))
		Expect(stored[0].AuthorID).To(BeNil())

		w = app.do(http.MethodGet, "/api/notes/", bob, nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))

		w = app.do(http.MethodPost, "/api/token/", "", map[string]string{"username": "bob", "password": "password-bob"})
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	Describe("operational endpoints", func() {
		It("reports health", func() {
			w := app.do(http.MethodGet, "/api/health", "", nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]string
			decode(w, &resp)
			Expect(resp).To(HaveKeyWithValue("status", "ok"))
			Expect(resp).To(HaveKeyWithValue("database", "ok"))
			Expect(resp).To(HaveKey("timestamp"))
		})

		It("reports an unreachable database", func() {
			sqlDB, err := app.db.DB()
			Expect(err).NotTo(HaveOccurred())
			Expect(sqlDB.Close()).To(Succeed())

			w := app.do(http.MethodGet, "/api/health", "", nil)
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})

		It("exposes request metrics by route", func() {
			app.do(http.MethodGet, "/api/health", "", nil)

			w := app.do(http.MethodGet, "/metrics", "", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`orgnotes_http_requests_total{method="GET",path="/api/health",status="200"} 1`))
			Expect(w.Body.String()).To(ContainSubstring("orgnotes_http_request_duration_seconds"))
		})

		It("echoes a request id", func() {
			w := app.do(http.MethodGet, "/api/health", "", nil)
			Expect(w.Header().Get("X-Request-ID")).NotTo(BeEmpty())
		})

		It("answers CORS preflight for configured origins", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/notes/", nil)
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			w := httptest.NewRecorder()

			app.router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
		})
	})
})
