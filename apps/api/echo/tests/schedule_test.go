package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/user"
)

func entryBody(t *testing.T, sectionID, teacherID string, day int, start, end string) []byte {
	return marchallObj(t, map[string]interface{}{
		"section_id":  sectionID,
		"teacher_id":  teacherID,
		"subject":     "Maths",
		"day_of_week": day,
		"start_time":  start,
		"end_time":    end,
	})
}

func TestTimetableCreate(t *testing.T) {
	ta := setup(t)
	ta.createUser(t, "admin", user.RoleAdmin)
	ta.createUser(t, "stud", user.RoleStudent)
	teach := ta.createUser(t, "teach", user.RoleTeacher)
	adminToken := ta.login(t, "admin")
	studToken := ta.login(t, "stud")
	sec := createSection(t, ta, "7A")

	t.Run("ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/timetable", adminToken, entryBody(t, sec.ID, teach.ID, 1, "09:00", "10:00"))
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var entry schedule.Entry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
		assert.Equal(t, "09:00", entry.StartTime.String())
		assert.Equal(t, schedule.DefaultColor, entry.Color)
	})

	conflictBody := marchallObj(t, httpErr{Message: "time slot conflicts with existing schedule"})
	tests := []httpTest{
		{
			name: "overlap rejected", method: http.MethodPost, path: "/api/timetable", token: adminToken,
			body: entryBody(t, sec.ID, teach.ID, 1, "09:30", "10:30"), wantCode: http.StatusBadRequest, wantData: conflictBody,
		},
		{
			name: "teacher double-booked in other section", method: http.MethodPost, path: "/api/timetable", token: adminToken,
			body: entryBody(t, "other-section", teach.ID, 1, "09:30", "10:30"), wantCode: http.StatusBadRequest, wantData: conflictBody,
		},
		{
			name: "back-to-back allowed", method: http.MethodPost, path: "/api/timetable", token: adminToken,
			body: entryBody(t, sec.ID, teach.ID, 1, "10:00", "11:00"), wantCode: http.StatusCreated,
		},
		{
			name: "admin alias route", method: http.MethodPost, path: "/api/admin/timetable", token: adminToken,
			body: entryBody(t, sec.ID, teach.ID, 2, "09:00", "10:00"), wantCode: http.StatusCreated,
		},
		{
			name: "start must precede end", method: http.MethodPost, path: "/api/timetable", token: adminToken,
			body: entryBody(t, sec.ID, teach.ID, 3, "10:00", "09:00"), wantCode: http.StatusBadRequest,
		},
		{
			name: "weekend day rejected", method: http.MethodPost, path: "/api/timetable", token: adminToken,
			body: entryBody(t, sec.ID, teach.ID, 6, "09:00", "10:00"), wantCode: http.StatusBadRequest,
		},
		{
			name: "unparsable time", method: http.MethodPost, path: "/api/timetable", token: adminToken,
			body: marchallObj(t, map[string]interface{}{
				"section_id": sec.ID, "teacher_id": teach.ID, "subject": "Maths",
				"day_of_week": 1, "start_time": "9am", "end_time": "10:00",
			}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "admin required", method: http.MethodPost, path: "/api/timetable", token: studToken,
			body: entryBody(t, sec.ID, teach.ID, 4, "09:00", "10:00"), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errDenied),
		},
		{
			name: "auth required", method: http.MethodPost, path: "/api/timetable",
			body: entryBody(t, sec.ID, teach.ID, 4, "09:00", "10:00"), wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errNoToken),
		},
	}
	for _, tt := range tests {
		tt.run(t, ta.app)
	}
}

func TestTimetableBySectionAndMutations(t *testing.T) {
	ta := setup(t)
	ta.createUser(t, "admin", user.RoleAdmin)
	ta.createUser(t, "stud", user.RoleStudent)
	teach := ta.createUser(t, "teach", user.RoleTeacher)
	adminToken := ta.login(t, "admin")
	studToken := ta.login(t, "stud")
	sec := createSection(t, ta, "7A")

	mkEntry := func(day int, start, end string) schedule.Entry {
		from, err := schedule.ParseClockTime(start)
		require.NoError(t, err)
		to, err := schedule.ParseClockTime(end)
		require.NoError(t, err)
		entry, err := ta.schedules.Create(schedule.NewEntry{
			SectionID: sec.ID, TeacherID: teach.ID, Subject: "Maths",
			DayOfWeek: day, StartTime: from, EndTime: to,
		})
		require.NoError(t, err)
		return entry
	}
	mon := mkEntry(1, "09:00", "10:00")
	tue := mkEntry(2, "09:00", "10:00")

	t.Run("any authed user can read a section timetable", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/timetable/section/"+sec.ID, studToken)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var entries []schedule.Entry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
		assert.Len(t, entries, 2)
	})
	t.Run("unknown section is an empty list", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/timetable/section/nope", studToken)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
	t.Run("update", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/timetable/"+mon.ID, adminToken, entryBody(t, sec.ID, teach.ID, 1, "11:00", "12:00"))
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var entry schedule.Entry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
		assert.Equal(t, "11:00", entry.StartTime.String())
	})
	t.Run("update onto another slot conflicts", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/timetable/"+tue.ID, adminToken, entryBody(t, sec.ID, teach.ID, 1, "11:30", "12:30"))
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("update unknown", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/timetable/nope", adminToken, entryBody(t, sec.ID, teach.ID, 5, "09:00", "10:00"))
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/timetable/"+tue.ID, adminToken)
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		req, rec = newAuthRequest(http.MethodDelete, "/api/timetable/"+tue.ID, adminToken)
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
	t.Run("mutations are admin-only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/timetable/"+mon.ID, studToken)
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
