package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/holiday"
	"github.com/trezcool/shule/core/leave"
	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/section"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
)

const testPassword = "Str0ng&Sound"

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	require.NoError(t, err)
	return d
}

var (
	errNoToken      = httpErr{Message: "user not authenticated"}
	errDenied       = httpErr{Message: "access denied"}
	errNotFoundBody = httpErr{Message: "not found"}
)

type testApp struct {
	app  echoapi.Server
	conf *core.Config

	users     *user.Service
	sections  *section.Service
	schedules *schedule.Service
	holidays  *holiday.Service
	leaves    *leave.Service

	usrRepo user.Repository
}

func testConfig() *core.Config {
	return &core.Config{
		Env:             "TEST",
		TestMode:        true,
		AppName:         "Shule",
		SecretKey:       "n0t-s0-s3cret-t3st-k3y",
		FrontendBaseURL: "http://localhost:3000",
		DefaultFromName: "Shule",
		DefaultFromAddr: "noreply@localhost",
		Server:          core.ServerConfig{JWTExpirationDelta: time.Hour},
	}
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := testConfig()
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	ta := &testApp{
		conf:      conf,
		usrRepo:   usrRepo,
		users:     user.NewService(usrRepo, mailSvc, conf),
		sections:  section.NewService(inmemdb.NewSectionRepository(db), usrRepo),
		schedules: schedule.NewService(inmemdb.NewScheduleRepository(db)),
		holidays:  holiday.NewService(inmemdb.NewHolidayRepository(db)),
		leaves:    leave.NewService(inmemdb.NewLeaveRepository(db), usrRepo, mailSvc),
	}
	ta.app = echoapi.NewServer(&echoapi.Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         core.NewStdLogger(log.New(io.Discard, "", 0)),
		Validate:       validate,
		Translator:     translator,
		UserSvc:        ta.users,
		SectionSvc:     ta.sections,
		ScheduleSvc:    ta.schedules,
		HolidaySvc:     ta.holidays,
		LeaveSvc:       ta.leaves,
	})
	return ta
}

// createUser seeds a user directly in the repository, bypassing the
// password policy; all test users share testPassword.
func (ta *testApp) createUser(t *testing.T, uname, role string) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		ID:        uuid.New().String(),
		Username:  uname,
		Email:     uname + "@test.cd",
		Role:      role,
		FullName:  "Test " + uname,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, usr.SetPassword(testPassword))
	usr, err := ta.usrRepo.CreateUser(usr)
	require.NoError(t, err)
	return usr
}

// login exchanges credentials for a token through the real endpoint.
func (ta *testApp) login(t *testing.T, uname string) string {
	t.Helper()
	body := marchallObj(t, map[string]string{"username": uname, "password": testPassword})
	req, rec := newRequest(http.MethodPost, "/api/auth/login", body)
	ta.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	var resp echoapi.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

type httpErr struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func (tt httpTest) run(t *testing.T, app echoapi.Server) {
	t.Run(tt.name, func(t *testing.T) {
		method := tt.method
		if method == "" {
			method = http.MethodGet
		}
		req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
