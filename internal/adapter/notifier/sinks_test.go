package notifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"prestamos-backend/internal/adapter/repository/mysql"
	"prestamos-backend/internal/adapter/settings"
	"prestamos-backend/internal/domain/notify"
	"prestamos-backend/internal/domain/setting"
	"prestamos-backend/internal/domain/user"
	"prestamos-backend/internal/testutil/dbtest"
)

func TestInboxAndOutboxSinks(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	u := dbtest.SeedUser(t, db, user.RoleCliente, user.TierHierro)

	notes := mysql.NewNotificationRepository(db)
	users := mysql.NewUserRepository(db)
	settingRepo := mysql.NewSettingRepository(db)
	require.NoError(t, settingRepo.Upsert(ctx, setting.KeyDocumentFromEmail, "no-reply@example.com"))
	provider := settings.NewCachedProvider(settingRepo, nil, 0)

	d, err := NewDispatcher(4, 0,
		NewInboxSink(notes),
		NewOutboxSink(notes, users, provider),
		LogSink{},
	)
	require.NoError(t, err)
	defer d.Close()

	d.Notify(ctx, u.ID, notify.Message{Title: "Cuota aprobada", Body: "ok", Data: map[string]any{"loan_id": "L1"}})
	d.Wait()

	inbox, err := notes.ListNotifications(ctx, u.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.Equal(t, "Cuota aprobada", inbox[0].Title)
	require.JSONEq(t, `{"loan_id":"L1"}`, inbox[0].Data)

	var mails []notify.OutboxEmail
	require.NoError(t, db.Find(&mails).Error)
	require.Len(t, mails, 1)
	require.Equal(t, u.Email, mails[0].Target)
	require.Equal(t, "no-reply@example.com", mails[0].From)
	require.Equal(t, notify.OutboxPending, mails[0].Status)
}
