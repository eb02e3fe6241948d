package echoapi

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core/class"
	"github.com/trezcool/edumanage/core/payment"
	emailsvc "github.com/trezcool/edumanage/services/email"
)

func Test_paymentApi_createIntent(t *testing.T) {
	app := initApp(t)
	ctx := context.Background()

	cls := createClass(t, app.classRepo, "ned@winterfell.test", "Swordsmanship", class.StatusApproved, 49.99, 3)

	t.Run("intent bumps the enroll counter", func(t *testing.T) {
		tt := httpTest{
			body:     marchallObj(t, IntentRequest{Price: 49.99}),
			wantCode: http.StatusOK,
		}
		req, rec := newRequest(http.MethodPost, "/create-payment-intent/"+cls.ID.Hex(), tt.body)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		var resp IntentResponse
		decodeBody(t, rec, &resp)
		if resp.ClientSecret == "" {
			t.Error("clientSecret is empty")
		}

		intents := app.provider.CreatedIntents()
		if len(intents) != 1 {
			t.Fatalf("len(intents) = %d; want 1", len(intents))
		}
		// the provider counts minor units
		if intents[0].Amount != 4999 {
			t.Errorf("amount = %d; want 4999", intents[0].Amount)
		}
		if intents[0].Currency != app.conf.Stripe.Currency {
			t.Errorf("currency = %q; want %q", intents[0].Currency, app.conf.Stripe.Currency)
		}

		got, err := app.classRepo.GetClassByID(ctx, cls.ID.Hex())
		if err != nil {
			t.Fatalf("GetClassByID() failed: %v", err)
		}
		if got.Enroll != 4 {
			t.Errorf("enroll = %d; want 4", got.Enroll)
		}
	})

	t.Run("provider failure leaves the counter untouched", func(t *testing.T) {
		app.provider.Err = errors.New("provider unreachable")
		defer func() { app.provider.Err = nil }()

		tt := httpTest{
			body:     marchallObj(t, IntentRequest{Price: 49.99}),
			wantCode: http.StatusInternalServerError,
			wantData: marchallObj(t, httpErr{Error: http.StatusText(http.StatusInternalServerError)}),
		}
		req, rec := newRequest(http.MethodPost, "/create-payment-intent/"+cls.ID.Hex(), tt.body)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		got, err := app.classRepo.GetClassByID(ctx, cls.ID.Hex())
		if err != nil {
			t.Fatalf("GetClassByID() failed: %v", err)
		}
		if got.Enroll != 4 {
			t.Errorf("enroll = %d; want 4", got.Enroll)
		}
	})

	tests := []httpTest{
		{
			name:     "unknown class",
			path:     "/create-payment-intent/5ff7a268ecb55d0001234567",
			body:     marchallObj(t, IntentRequest{Price: 49.99}),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errNotFoundBody),
		},
		{
			name:     "malformed id behaves as absent",
			path:     "/create-payment-intent/nope",
			body:     marchallObj(t, IntentRequest{Price: 49.99}),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errNotFoundBody),
		},
		{
			name:     "price is required",
			path:     "/create-payment-intent/" + cls.ID.Hex(),
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"price": "this field is required"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// the rejected attempts created no intents past the first one
	if n := len(app.provider.CreatedIntents()); n != 1 {
		t.Errorf("len(intents) = %d; want 1", n)
	}
}

// concurrent checkouts must never lose an enrollment; the counter moves by
// atomic increments, not read-then-write.
func Test_paymentApi_createIntent_concurrent(t *testing.T) {
	app := initApp(t)
	ctx := context.Background()

	cls := createClass(t, app.classRepo, "ned@winterfell.test", "Swordsmanship", class.StatusApproved, 49.99, 0)
	body := marchallObj(t, IntentRequest{Price: 49.99})

	const buyers = 10
	codes := make([]int, buyers)

	var wg sync.WaitGroup
	wg.Add(buyers)
	for i := 0; i < buyers; i++ {
		go func(i int) {
			defer wg.Done()
			req, rec := newRequest(http.MethodPost, "/create-payment-intent/"+cls.ID.Hex(), body)
			app.server.ServeHTTP(rec, req)
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		if code != http.StatusOK {
			t.Errorf("buyer %d: code = %d; want %d", i, code, http.StatusOK)
		}
	}

	got, err := app.classRepo.GetClassByID(ctx, cls.ID.Hex())
	if err != nil {
		t.Fatalf("GetClassByID() failed: %v", err)
	}
	if got.Enroll != buyers {
		t.Errorf("enroll = %d; want %d", got.Enroll, buyers)
	}
	if n := len(app.provider.CreatedIntents()); n != buyers {
		t.Errorf("len(intents) = %d; want %d", n, buyers)
	}
}

func Test_paymentApi_record(t *testing.T) {
	app := initApp(t)
	ctx := context.Background()
	emailsvc.ClearSentMessages()

	cls := createClass(t, app.classRepo, "ned@winterfell.test", "Swordsmanship", class.StatusApproved, 49.99, 4)

	newPay := payment.NewPayment{
		Email:      "arya@winterfell.test",
		ClassID:    cls.ID.Hex(),
		ClassTitle: cls.Title,
		Amount:     49.99,
		IntentID:   "pi_test",
	}

	t.Run("anonymous cannot record", func(t *testing.T) {
		tt := httpTest{
			body:     marchallObj(t, newPay),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		}
		req, rec := newRequest(http.MethodPost, "/payments", tt.body)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		ledger, err := app.payRepo.FilterPaymentsByEmail(ctx, newPay.Email)
		if err != nil {
			t.Fatalf("FilterPaymentsByEmail() failed: %v", err)
		}
		if len(ledger) != 0 {
			t.Errorf("rejected record must not land in the ledger: %+v", ledger)
		}
	})

	t.Run("recorded payment lands in the ledger", func(t *testing.T) {
		tt := httpTest{
			body:     marchallObj(t, newPay),
			token:    getToken(t, "Arya Stark", newPay.Email),
			wantCode: http.StatusCreated,
		}
		req, rec := newAuthRequest(http.MethodPost, "/payments", tt.token, tt.body)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		var p payment.Payment
		decodeBody(t, rec, &p)
		if p.ID.IsZero() {
			t.Error("id not set")
		}
		if p.Email != newPay.Email || p.ClassID != newPay.ClassID || p.Amount != newPay.Amount {
			t.Errorf("payment = %+v", p)
		}

		// the payer got a receipt
		if n := len(emailsvc.SentMessages); n != 1 {
			t.Fatalf("len(SentMessages) = %d; want 1", n)
		}
		msg := emailsvc.SentMessages[0]
		if msg.Subject != "Payment received" {
			t.Errorf("subject = %q", msg.Subject)
		}
		if len(msg.To) != 1 || msg.To[0].Address != newPay.Email {
			t.Errorf("recipients = %+v; want %q", msg.To, newPay.Email)
		}
	})

	t.Run("email is required", func(t *testing.T) {
		tt := httpTest{
			body:     marchallObj(t, payment.NewPayment{ClassID: cls.ID.Hex(), Amount: 49.99}),
			token:    getToken(t, "Arya Stark", newPay.Email),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email": "this field is required"}`),
		}
		req, rec := newAuthRequest(http.MethodPost, "/payments", tt.token, tt.body)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_paymentApi_listEnrollments(t *testing.T) {
	app := initApp(t)

	cls := createClass(t, app.classRepo, "ned@winterfell.test", "Swordsmanship", class.StatusApproved, 49.99, 4)
	mine := createPayment(t, app.payRepo, "arya@winterfell.test", cls.ID.Hex(), 49.99)
	createPayment(t, app.payRepo, "sansa@winterfell.test", cls.ID.Hex(), 49.99)

	token := getToken(t, "Arya Stark", "arya@winterfell.test")

	tests := []httpTest{
		{
			name:     "email param is required",
			path:     "/enrollments",
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error": "email query parameter is required"}`),
		},
		{
			name:     "own enrollments only",
			path:     "/enrollments?email=arya@winterfell.test",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []payment.Payment{mine}),
		},
		{
			name:     "no enrollments",
			path:     "/enrollments?email=ghost@edu.test",
			token:    token,
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
		{
			name:     "anonymous is rejected",
			path:     "/enrollments?email=arya@winterfell.test",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
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
