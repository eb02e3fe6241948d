package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/trezcool/edumanage/core/teacherreq"
	"github.com/trezcool/edumanage/core/user"
	emailsvc "github.com/trezcool/edumanage/services/email"
)

func Test_teacherReqApi_create(t *testing.T) {
	app := initApp(t)

	student := createUser(t, app.usrRepo, "Sam Tarly", "sam@citadel.test", user.RoleStudent)

	newReq := teacherreq.NewRequest{
		Name:       student.Name,
		Email:      student.Email,
		Experience: "beginner",
		Title:      "Maester in training",
		Category:   "history",
	}

	t.Run("application lands pending", func(t *testing.T) {
		tt := httpTest{
			body:     marchallObj(t, newReq),
			token:    getToken(t, student.Name, student.Email),
			wantCode: http.StatusCreated,
		}
		req, rec := newAuthRequest(http.MethodPost, "/teacher-req", tt.token, tt.body)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		var created teacherreq.Request
		decodeBody(t, rec, &created)
		if created.Status != teacherreq.StatusPending {
			t.Errorf("status = %q; want %q", created.Status, teacherreq.StatusPending)
		}
		if created.Role != "" {
			t.Errorf("role = %q; want empty until approval", created.Role)
		}
	})

	tests := []httpTest{
		{
			name:     "anonymous is rejected",
			body:     marchallObj(t, newReq),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "applying for someone else's email is rejected",
			body:     marchallObj(t, newReq),
			token:    getToken(t, "Impostor", "impostor@edu.test"),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errPermissionDenied),
		},
		{
			name:     "name is required",
			body:     marchallObj(t, teacherreq.NewRequest{Email: student.Email}),
			token:    getToken(t, student.Name, student.Email),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"name": "this field is required"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/teacher-req", tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_teacherReqApi_query(t *testing.T) {
	app := initApp(t)

	admin := createUser(t, app.usrRepo, "Admin", "admin@edu.test", user.RoleAdmin)
	student := createUser(t, app.usrRepo, "Student", "student@edu.test", user.RoleStudent)
	createTeacherRequest(t, app.reqRepo, "Sam Tarly", "sam@citadel.test", teacherreq.StatusPending, "")

	t.Run("admin sees applications", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/teacher-req", getToken(t, admin.Name, admin.Email))
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, rec)

		var reqs []teacherreq.Request
		decodeBody(t, rec, &reqs)
		if len(reqs) != 1 {
			t.Errorf("len(reqs) = %d; want 1", len(reqs))
		}
	})

	t.Run("student is rejected", func(t *testing.T) {
		tt := httpTest{
			token:    getToken(t, student.Name, student.Email),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errPermissionDenied),
		}
		req, rec := newAuthRequest(http.MethodGet, "/teacher-req", tt.token)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_teacherReqApi_checkTeacher(t *testing.T) {
	app := initApp(t)

	pending := createTeacherRequest(t, app.reqRepo, "Sam Tarly", "sam@citadel.test", teacherreq.StatusPending, "")
	createTeacherRequest(t, app.reqRepo, "Ned Stark", "ned@winterfell.test", teacherreq.StatusApproved, user.RoleTeacher)

	tests := []httpTest{
		{
			name:     "pending application is not a teacher yet",
			path:     "/teacher-req/teacher/" + pending.Email,
			token:    getToken(t, pending.Name, pending.Email),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, TeacherCheckResponse{Teacher: false}),
		},
		{
			name:     "approved application is",
			path:     "/teacher-req/teacher/ned@winterfell.test",
			token:    getToken(t, "Ned Stark", "ned@winterfell.test"),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, TeacherCheckResponse{Teacher: true}),
		},
		{
			name:     "no application at all",
			path:     "/teacher-req/teacher/ghost@edu.test",
			token:    getToken(t, "Ghost", "ghost@edu.test"),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, TeacherCheckResponse{Teacher: false}),
		},
		{
			name:     "probing someone else's email is rejected",
			path:     "/teacher-req/teacher/ned@winterfell.test",
			token:    getToken(t, pending.Name, pending.Email),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errPermissionDenied),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_teacherReqApi_approve(t *testing.T) {
	app := initApp(t)
	ctx := context.Background()
	emailsvc.ClearSentMessages()

	admin := createUser(t, app.usrRepo, "Admin", "admin@edu.test", user.RoleAdmin)
	applicant := createUser(t, app.usrRepo, "Sam Tarly", "sam@citadel.test", user.RoleStudent)
	application := createTeacherRequest(t, app.reqRepo, applicant.Name, applicant.Email, teacherreq.StatusPending, "")

	// an application whose user never signed up
	orphan := createTeacherRequest(t, app.reqRepo, "Ned Stark", "ned@winterfell.test", teacherreq.StatusPending, "")

	adminToken := getToken(t, admin.Name, admin.Email)
	wantSuccess := marchallObj(t, SuccessResponse{Success: "Teacher request has been approved."})

	tests := []httpTest{
		{
			name:     "non-admin cannot approve",
			method:   http.MethodPatch,
			path:     "/teacher-req/approve/" + application.ID.Hex(),
			token:    getToken(t, applicant.Name, applicant.Email),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errPermissionDenied),
		},
		{
			name:     "admin approves",
			method:   http.MethodPatch,
			path:     "/teacher-req/approve/" + application.ID.Hex(),
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: wantSuccess,
		},
		{
			name:     "approval tolerates a missing user record",
			method:   http.MethodPatch,
			path:     "/teacher-req/approve/" + orphan.ID.Hex(),
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: wantSuccess,
		},
		{
			name:     "unknown application",
			method:   http.MethodPatch,
			path:     "/teacher-req/approve/5ff7a268ecb55d0001234567",
			token:    adminToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errNotFoundBody),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// the approval promoted the user record
	usr, err := app.usrRepo.GetUserByID(ctx, applicant.ID.Hex())
	if err != nil {
		t.Fatalf("GetUserByID() failed: %v", err)
	}
	if usr.Role != user.RoleTeacher {
		t.Errorf("role = %q; want %q", usr.Role, user.RoleTeacher)
	}

	// and the role middleware now admits the applicant
	t.Run("applicant now passes the teacher gate", func(t *testing.T) {
		tt := httpTest{
			token:    getToken(t, applicant.Name, applicant.Email),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, TeacherCheckResponse{Teacher: true}),
		}
		req, rec := newAuthRequest(http.MethodGet, "/teacher-req/teacher/"+applicant.Email, tt.token)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	// both approvals mailed the applicants
	if n := len(emailsvc.SentMessages); n != 2 {
		t.Fatalf("len(SentMessages) = %d; want 2", n)
	}
	msg := emailsvc.SentMessages[0]
	if msg.Subject != "Teacher application approved" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if len(msg.To) != 1 || msg.To[0].Address != applicant.Email {
		t.Errorf("recipients = %+v; want %q", msg.To, applicant.Email)
	}
}

func Test_teacherReqApi_reject(t *testing.T) {
	app := initApp(t)

	admin := createUser(t, app.usrRepo, "Admin", "admin@edu.test", user.RoleAdmin)
	application := createTeacherRequest(t, app.reqRepo, "Sam Tarly", "sam@citadel.test", teacherreq.StatusPending, "")

	t.Run("admin rejects", func(t *testing.T) {
		tt := httpTest{
			token:    getToken(t, admin.Name, admin.Email),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, SuccessResponse{Success: "Teacher request has been rejected."}),
		}
		req, rec := newAuthRequest(http.MethodPatch, "/teacher-req/reject/"+application.ID.Hex(), tt.token)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("rejected applicant stays outside the teacher gate", func(t *testing.T) {
		tt := httpTest{
			token:    getToken(t, "Sam Tarly", "sam@citadel.test"),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, TeacherCheckResponse{Teacher: false}),
		}
		req, rec := newAuthRequest(http.MethodGet, "/teacher-req/teacher/sam@citadel.test", tt.token)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}
