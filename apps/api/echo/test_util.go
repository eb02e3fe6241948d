package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/class"
	"github.com/trezcool/edumanage/core/payment"
	"github.com/trezcool/edumanage/core/teacherreq"
	"github.com/trezcool/edumanage/core/user"
	emailsvc "github.com/trezcool/edumanage/services/email"
	logsvc "github.com/trezcool/edumanage/services/logger"
	paymentsvc "github.com/trezcool/edumanage/services/payment"
	dummydb "github.com/trezcool/edumanage/storage/database/dummy"
)

var (
	errMissingToken     = httpErr{Error: "missing or malformed jwt"}
	errPermissionDenied = httpErr{Error: "permission denied"}
	errNotFoundBody     = httpErr{Error: "not found"}
)

type httpErr struct {
	Error string `json:"error"`
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

type testApp struct {
	server   Server
	conf     *core.Config
	provider *paymentsvc.DummyService

	usrRepo   user.Repository
	classRepo class.Repository
	reqRepo   teacherreq.Repository
	payRepo   payment.Repository

	usrSvc *user.Service
}

func testConfig() *core.Config {
	conf := &core.Config{
		Debug:            false,
		TestMode:         true,
		Env:              "TEST",
		AppName:          "EduManage",
		SecretKey:        "secret",
		DefaultFromEmail: "noreply@localhost",
	}
	conf.Stripe.Currency = "usd"
	conf.Server.JWTExpirationDelta = 10 * time.Hour
	return conf
}

func initApp(t *testing.T) *testApp {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("initApp() failed: %v", err)
	}

	conf := testConfig()
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	provider := paymentsvc.NewDummyService()

	usrRepo := dummydb.NewUserRepository(db)
	classRepo := dummydb.NewClassRepository(db)
	reqRepo := dummydb.NewTeacherRequestRepository(db)
	payRepo := dummydb.NewPaymentRepository(db)

	usrSvc := user.NewService(usrRepo)
	classSvc := class.NewService(classRepo)
	reqSvc := teacherreq.NewService(reqRepo, usrSvc, mailSvc)
	paySvc := payment.NewService(payRepo, classSvc, provider, mailSvc, logger, conf.Stripe.Currency)

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)

	server := NewServer(ServerDeps{
		Conf:          conf,
		Logger:        logger,
		Validate:      validate,
		Translator:    translator,
		UserSvc:       usrSvc,
		ClassSvc:      classSvc,
		TeacherReqSvc: reqSvc,
		PaymentSvc:    paySvc,
	})

	return &testApp{
		server:    server,
		conf:      conf,
		provider:  provider,
		usrRepo:   usrRepo,
		classRepo: classRepo,
		reqRepo:   reqRepo,
		payRepo:   payRepo,
		usrSvc:    usrSvc,
	}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
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

func getToken(t *testing.T, name, email string) string {
	token, err := GenerateToken(GetClaims(name, email))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func getExpiredToken(t *testing.T, email string) string {
	claims := GetClaims("", email)
	claims.IssuedAt = time.Now().Add(-11 * time.Hour).Unix()
	claims.ExpiresAt = time.Now().Add(-time.Hour).Unix()
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getExpiredToken() failed: %v", err)
	}
	return token
}

func createUser(t *testing.T, repo user.Repository, name, email, role string) user.User {
	now := time.Now().UTC()
	usr, err := repo.CreateUser(context.Background(), user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func createClass(t *testing.T, repo class.Repository, teacherEmail, title, status string, price float64, enroll int) class.Class {
	now := time.Now().UTC()
	cls, err := repo.CreateClass(context.Background(), class.Class{
		TeacherEmail: teacherEmail,
		Title:        title,
		Price:        price,
		Status:       status,
		Enroll:       enroll,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("createClass() failed: %v", err)
	}
	return cls
}

func createTeacherRequest(t *testing.T, repo teacherreq.Repository, name, email, status, role string) teacherreq.Request {
	now := time.Now().UTC()
	req, err := repo.CreateRequest(context.Background(), teacherreq.Request{
		Name:      name,
		Email:     email,
		Status:    status,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("createTeacherRequest() failed: %v", err)
	}
	return req
}

func createPayment(t *testing.T, repo payment.Repository, email, classID string, amount float64) payment.Payment {
	p, err := repo.CreatePayment(context.Background(), payment.Payment{
		Email:     email,
		ClassID:   classID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("createPayment() failed: %v", err)
	}
	return p
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decodeBody() failed: %v; body: %s", err, rec.Body.String())
	}
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body: %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return jsonEqual(j1, j2), nil
}

func jsonEqual(j1, j2 interface{}) bool {
	return reflect.DeepEqual(j1, j2)
}
