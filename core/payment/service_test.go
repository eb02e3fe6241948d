package payment_test

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/class"
	"github.com/trezcool/edumanage/core/payment"
	emailsvc "github.com/trezcool/edumanage/services/email"
	logsvc "github.com/trezcool/edumanage/services/logger"
	paymentsvc "github.com/trezcool/edumanage/services/payment"
	dummydb "github.com/trezcool/edumanage/storage/database/dummy"
)

type testDeps struct {
	svc       *payment.Service
	classRepo class.Repository
	provider  *paymentsvc.DummyService
}

func initSvc(t *testing.T) testDeps {
	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := &core.Config{AppName: "EduManage", DefaultFromEmail: "noreply@localhost"}
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	classRepo := dummydb.NewClassRepository(db)
	provider := paymentsvc.NewDummyService()
	svc := payment.NewService(
		dummydb.NewPaymentRepository(db),
		class.NewService(classRepo),
		provider,
		emailsvc.NewConsoleServiceMock(conf),
		logger,
		"usd",
	)
	return testDeps{svc: svc, classRepo: classRepo, provider: provider}
}

func createClass(t *testing.T, repo class.Repository, price float64, enroll int) class.Class {
	cls, err := repo.CreateClass(context.Background(), class.Class{
		TeacherEmail: "ned@winterfell.test",
		Title:        "Swordsmanship",
		Price:        price,
		Status:       class.StatusApproved,
		Enroll:       enroll,
	})
	require.NoError(t, err)
	return cls
}

func TestService_CreateIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown class", func(t *testing.T) {
		deps := initSvc(t)

		_, err := deps.svc.CreateIntent(ctx, "5ff7a268ecb55d0001234567", 49.99)
		assert.Equal(t, class.ErrNotFound, errors.Cause(err))
		assert.Empty(t, deps.provider.CreatedIntents())
	})

	t.Run("provider failure leaves the counter untouched", func(t *testing.T) {
		deps := initSvc(t)
		cls := createClass(t, deps.classRepo, 49.99, 3)
		deps.provider.Err = errors.New("provider unreachable")

		_, err := deps.svc.CreateIntent(ctx, cls.ID.Hex(), 49.99)
		assert.Error(t, err)

		got, err := deps.classRepo.GetClassByID(ctx, cls.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, 3, got.Enroll)
	})

	t.Run("amount is truncated to minor units", func(t *testing.T) {
		deps := initSvc(t)
		cls := createClass(t, deps.classRepo, 10.555, 0)

		secret, err := deps.svc.CreateIntent(ctx, cls.ID.Hex(), 10.555)
		require.NoError(t, err)
		assert.NotEmpty(t, secret)

		intents := deps.provider.CreatedIntents()
		require.Len(t, intents, 1)
		assert.Equal(t, int64(1055), intents[0].Amount)
		assert.Equal(t, "usd", intents[0].Currency)

		got, err := deps.classRepo.GetClassByID(ctx, cls.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, 1, got.Enroll)
	})
}
