package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/holiday"
	"github.com/trezcool/shule/core/user"
)

func holidayBody(t *testing.T, title, start, end, typ string) []byte {
	return marchallObj(t, map[string]interface{}{
		"title":       title,
		"description": title + " break",
		"start_date":  start,
		"end_date":    end,
		"type":        typ,
	})
}

func mockHolidayNow(t *testing.T, year int, month time.Month, day int) {
	orig := holiday.NowFunc
	holiday.NowFunc = func() time.Time {
		return time.Date(year, month, day, 8, 0, 0, 0, time.UTC)
	}
	t.Cleanup(func() { holiday.NowFunc = orig })
}

func TestHolidayCreate(t *testing.T) {
	ta := setup(t)
	ta.createUser(t, "admin", user.RoleAdmin)
	ta.createUser(t, "teach", user.RoleTeacher)
	adminToken := ta.login(t, "admin")
	teachToken := ta.login(t, "teach")

	t.Run("ok defaults to academic", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/holidays", adminToken, holidayBody(t, "Mid-term", "2026-10-05", "2026-10-09", ""))
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var hol holiday.Holiday
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hol))
		assert.Equal(t, holiday.TypeAcademic, hol.Type)
		assert.Equal(t, 5, hol.Days())
	})

	tests := []httpTest{
		{
			name: "missing dates", method: http.MethodPost, path: "/api/holidays", token: adminToken,
			body: marchallObj(t, map[string]interface{}{"title": "Eid", "description": "Eid break"}), wantCode: http.StatusBadRequest,
		},
		{
			name: "start after end", method: http.MethodPost, path: "/api/holidays", token: adminToken,
			body: holidayBody(t, "Eid", "2026-05-10", "2026-05-08", "national"), wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown type", method: http.MethodPost, path: "/api/holidays", token: adminToken,
			body: holidayBody(t, "Eid", "2026-05-08", "2026-05-08", "party"), wantCode: http.StatusBadRequest,
		},
		{
			name: "admin required", method: http.MethodPost, path: "/api/holidays", token: teachToken,
			body: holidayBody(t, "Eid", "2026-05-08", "2026-05-08", "national"), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errDenied),
		},
		{
			name: "auth required", method: http.MethodPost, path: "/api/holidays",
			body: holidayBody(t, "Eid", "2026-05-08", "2026-05-08", "national"), wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errNoToken),
		},
	}
	for _, tt := range tests {
		tt.run(t, ta.app)
	}
}

func TestHolidayQuery(t *testing.T) {
	mockHolidayNow(t, 2026, time.March, 10)

	ta := setup(t)
	ta.createUser(t, "admin", user.RoleAdmin)
	ta.createUser(t, "stud", user.RoleStudent)
	adminToken := ta.login(t, "admin")
	studToken := ta.login(t, "stud")

	create := func(title, start, end, typ string) holiday.Holiday {
		req, rec := newAuthRequest(http.MethodPost, "/api/holidays", adminToken, holidayBody(t, title, start, end, typ))
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var hol holiday.Holiday
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hol))
		return hol
	}
	easter := create("Easter", "2026-04-03", "2026-04-06", "academic")
	labour := create("Labour Day", "2026-05-01", "2026-05-01", "national")
	winter := create("Winter", "2025-12-20", "2026-01-04", "academic")

	tests := []httpTest{
		{
			name: "by month and year", path: "/api/holidays?month=4&year=2026", token: studToken,
			wantData: marchallList(t, easter),
		},
		{
			name: "type filter", path: "/api/holidays?month=5&year=2026&type=National", token: studToken,
			wantData: marchallList(t, labour),
		},
		{
			name: "empty month", path: "/api/holidays?month=2&year=2026", token: studToken,
			wantData: []byte("[]"),
		},
		{
			name: "invalid month", path: "/api/holidays?month=13&year=2026", token: studToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Message: "invalid month"}),
		},
		{
			name: "invalid year", path: "/api/holidays?month=4&year=zero", token: studToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Message: "invalid year"}),
		},
		{
			name: "no params lists everything", path: "/api/holidays", token: studToken,
			wantData: marchallList(t, winter, easter, labour),
		},
		{
			name: "month alone does not filter", path: "/api/holidays?month=4", token: studToken,
			wantData: marchallList(t, winter, easter, labour),
		},
		{
			name: "upcoming", path: "/api/holidays/upcoming", token: studToken,
			wantData: marchallList(t, easter, labour),
		},
		{
			name: "auth required", path: "/api/holidays",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNoToken),
		},
	}
	for _, tt := range tests {
		tt.run(t, ta.app)
	}

	t.Run("statistics for the running academic year", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/holidays/statistics", studToken)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var stats holiday.Statistics
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
		// Winter (16 days) + Easter (4) + Labour Day (1); all fall in Jul 2025 - Jun 2026.
		assert.Equal(t, 2, stats.Academic)
		assert.Equal(t, 1, stats.National)
		assert.Equal(t, 0, stats.Other)
		assert.Equal(t, 21, stats.TotalDays)
	})
}

func TestHolidayUpdateDelete(t *testing.T) {
	ta := setup(t)
	ta.createUser(t, "admin", user.RoleAdmin)
	ta.createUser(t, "stud", user.RoleStudent)
	adminToken := ta.login(t, "admin")
	studToken := ta.login(t, "stud")

	hol, err := ta.holidays.Create(holiday.NewHoliday{
		Title: "Sports Day", Description: "inter-school games",
		StartDate: mustDate(t, "2026-02-13"), EndDate: mustDate(t, "2026-02-13"),
	})
	require.NoError(t, err)

	t.Run("update", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/holidays/"+hol.ID, adminToken, holidayBody(t, "Sports Week", "2026-02-13", "2026-02-17", "other"))
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated holiday.Holiday
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, "Sports Week", updated.Title)
		assert.Equal(t, holiday.TypeOther, updated.Type)
	})

	tests := []httpTest{
		{
			name: "update unknown", method: http.MethodPut, path: "/api/holidays/nope", token: adminToken,
			body: holidayBody(t, "Sports Week", "2026-02-13", "2026-02-17", "other"), wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Message: "holiday not found"}),
		},
		{
			name: "update is admin-only", method: http.MethodPut, path: "/api/holidays/" + hol.ID, token: studToken,
			body:     holidayBody(t, "Sports Week", "2026-02-13", "2026-02-17", "other"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errDenied),
		},
		{
			name: "delete is admin-only", method: http.MethodDelete, path: "/api/holidays/" + hol.ID, token: studToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errDenied),
		},
		{
			name: "delete", method: http.MethodDelete, path: "/api/holidays/" + hol.ID, token: adminToken,
			wantCode: http.StatusNoContent,
		},
		{
			name: "delete again", method: http.MethodDelete, path: "/api/holidays/" + hol.ID, token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Message: "holiday not found"}),
		},
	}
	for _, tt := range tests {
		tt.run(t, ta.app)
	}
}
