package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core/section"
	"github.com/trezcool/shule/core/user"
)

func createSection(t *testing.T, ta *testApp, name string) section.Section {
	t.Helper()
	sec, err := ta.sections.Create(section.NewSection{Name: name, GradeLevel: 7, AcademicYear: "2025-2026"})
	require.NoError(t, err)
	return sec
}

func TestSectionCRUD(t *testing.T) {
	ta := setup(t)
	ta.createUser(t, "admin", user.RoleAdmin)
	ta.createUser(t, "stud", user.RoleStudent)
	adminToken := ta.login(t, "admin")
	studToken := ta.login(t, "stud")

	t.Run("create", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"name": "7A", "grade_level": 7, "academic_year": "2025-2026"})
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/sections", adminToken, body)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var sec section.Section
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sec))
		assert.Equal(t, "7A", sec.Name)
		assert.NotEmpty(t, sec.ID)
	})
	t.Run("create invalid", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"name": "", "grade_level": 0, "academic_year": ""})
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/sections", adminToken, body)
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("list resolves members", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/admin/sections", adminToken)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var details []section.Detail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
		require.Len(t, details, 1)
		assert.NotNil(t, details[0].Students)
		assert.NotNil(t, details[0].Teachers)
	})

	tests := []httpTest{
		{name: "auth required", path: "/api/admin/sections", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNoToken)},
		{
			name: "admin required", path: "/api/admin/sections", token: studToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errDenied),
		},
		{
			name: "delete unknown", method: http.MethodDelete, path: "/api/admin/sections/nope", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Message: "section not found"}),
		},
	}
	for _, tt := range tests {
		tt.run(t, ta.app)
	}
}

func TestSectionRoster(t *testing.T) {
	ta := setup(t)
	ta.createUser(t, "admin", user.RoleAdmin)
	stud1 := ta.createUser(t, "stud1", user.RoleStudent)
	stud2 := ta.createUser(t, "stud2", user.RoleStudent)
	teach := ta.createUser(t, "teach", user.RoleTeacher)
	adminToken := ta.login(t, "admin")

	secA := createSection(t, ta, "7A")
	secB := createSection(t, ta, "7B")

	t.Run("assign students", func(t *testing.T) {
		body := marchallObj(t, map[string][]string{"student_ids": {stud1.ID, stud1.ID}})
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/sections/"+secA.ID+"/students", adminToken, body)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var sec section.Section
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sec))
		assert.Equal(t, []string{stud1.ID}, sec.StudentIDs)
	})
	t.Run("assign teacher id as student", func(t *testing.T) {
		body := marchallObj(t, map[string][]string{"student_ids": {teach.ID}})
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/sections/"+secA.ID+"/students", adminToken, body)
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("assign empty list", func(t *testing.T) {
		body := marchallObj(t, map[string][]string{"student_ids": {}})
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/sections/"+secA.ID+"/students", adminToken, body)
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("roster and availability", func(t *testing.T) {
		// stud2 goes to B; A's pool must then exclude them
		_, err := ta.sections.AssignStudents(secB.ID, []string{stud2.ID})
		require.NoError(t, err)

		req, rec := newAuthRequest(http.MethodGet, "/api/admin/sections/"+secA.ID+"/students", adminToken)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp echoapi.SectionStudentsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Students, 1)
		assert.Equal(t, stud1.ID, resp.Students[0].ID)
		require.Len(t, resp.AvailableStudents, 1)
		assert.Equal(t, stud1.ID, resp.AvailableStudents[0].ID)
	})
	t.Run("poaching from another section", func(t *testing.T) {
		// stud2 is on B's roster; A cannot take them until they are removed
		body := marchallObj(t, map[string][]string{"student_ids": {stud2.ID}})
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/sections/"+secA.ID+"/students", adminToken, body)
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("assign and remove teacher", func(t *testing.T) {
		body := marchallObj(t, map[string][]string{"teacher_ids": {teach.ID}})
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/sections/"+secA.ID+"/teachers", adminToken, body)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		// now in the section, dropped from the available pool
		req, rec = newAuthRequest(http.MethodGet, "/api/admin/sections/"+secA.ID+"/available-teachers", adminToken)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var available []section.Member
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &available))
		assert.Empty(t, available)

		req, rec = newAuthRequest(http.MethodDelete, "/api/admin/sections/"+secA.ID+"/teachers/"+teach.ID, adminToken)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var sec section.Section
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sec))
		assert.Empty(t, sec.TeacherIDs)
	})
	t.Run("remove student", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/admin/sections/"+secA.ID+"/students/"+stud1.ID, adminToken)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		req, rec = newAuthRequest(http.MethodDelete, "/api/admin/sections/"+secA.ID+"/students/"+stud1.ID, adminToken)
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code) // no longer a member
	})
}
