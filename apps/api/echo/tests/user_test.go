package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/user"
)

func TestAdminUserCreate(t *testing.T) {
	ta := setup(t)
	ta.createUser(t, "admin", user.RoleAdmin)
	ta.createUser(t, "stud", user.RoleStudent)
	adminToken := ta.login(t, "admin")
	studToken := ta.login(t, "stud")

	newUserBody := func(uname, role string) []byte {
		return marchallObj(t, map[string]string{
			"username":  uname,
			"email":     uname + "@test.cd",
			"password":  "V3ry&Sound",
			"role":      role,
			"full_name": "New " + uname,
		})
	}

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: "/api/admin/users",
			body: newUserBody("teach1", user.RoleTeacher), wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errNoToken),
		},
		{
			name: "admin required", method: http.MethodPost, path: "/api/admin/users",
			body: newUserBody("teach1", user.RoleTeacher), token: studToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errDenied),
		},
		{
			name: "creating admins is refused", method: http.MethodPost, path: "/api/admin/users",
			body: newUserBody("admin2", user.RoleAdmin), token: adminToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "cannot create admin accounts"}),
		},
		{
			name: "invalid role", method: http.MethodPost, path: "/api/admin/users",
			body: newUserBody("janitor", "janitor"), token: adminToken,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "weak password", method: http.MethodPost, path: "/api/admin/users",
			body: marchallObj(t, map[string]string{
				"username": "teach1", "email": "teach1@test.cd", "password": "short",
				"role": user.RoleTeacher, "full_name": "New teach1",
			}),
			token: adminToken, wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		tt.run(t, ta.app)
	}

	t.Run("ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/users", adminToken, newUserBody("teach1", user.RoleTeacher))
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "teach1", created.Username)
		assert.Equal(t, user.RoleTeacher, created.Role)
		assert.NotEmpty(t, created.ID)
	})
	t.Run("duplicate username", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/users", adminToken, newUserBody("teach1", user.RoleTeacher))
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})
}

func TestAdminUserListByRole(t *testing.T) {
	ta := setup(t)
	ta.createUser(t, "admin", user.RoleAdmin)
	stud1 := ta.createUser(t, "stud1", user.RoleStudent)
	stud2 := ta.createUser(t, "stud2", user.RoleStudent)
	teach := ta.createUser(t, "teach", user.RoleTeacher)
	adminToken := ta.login(t, "admin")
	studToken := ta.login(t, "stud1")

	tests := []httpTest{
		{name: "students", path: "/api/admin/users/student", token: adminToken, wantData: marchallList(t, stud1, stud2)},
		{name: "teachers", path: "/api/admin/users/teacher", token: adminToken, wantData: marchallList(t, teach)},
		{
			name: "admins not listable", path: "/api/admin/users/admin", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Message: "invalid role"}),
		},
		{
			name: "unknown role", path: "/api/admin/users/janitor", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Message: "invalid role"}),
		},
		{
			name: "admin required", path: "/api/admin/users/student", token: studToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errDenied),
		},
	}
	for _, tt := range tests {
		tt.run(t, ta.app)
	}
}

func TestAdminUserDelete(t *testing.T) {
	ta := setup(t)
	admin := ta.createUser(t, "admin", user.RoleAdmin)
	stud := ta.createUser(t, "stud", user.RoleStudent)
	adminToken := ta.login(t, "admin")

	t.Run("cannot delete self", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/admin/users/"+admin.ID, adminToken)
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
	t.Run("ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/admin/users/"+stud.ID, adminToken)
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err := ta.users.GetByID(stud.ID)
		assert.Equal(t, user.ErrNotFound, err)
	})
}
