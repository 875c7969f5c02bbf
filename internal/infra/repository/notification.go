package repository

import (
	"context"
	"time"

	"parking-reservation/internal/infra"
	sqlc "parking-reservation/internal/infra/sqlc/generated"
	"parking-reservation/internal/pkg/pgconv"
	"parking-reservation/internal/usecase/shared"
)

type NotificationWriteQueries interface {
	CreateNotificationJob(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateNotificationJobParams) error
	ClaimDueNotificationJobs(ctx context.Context, db sqlc.DBTX, arg sqlc.ClaimDueNotificationJobsParams) ([]sqlc.NotificationJobs, error)
	UpdateNotificationJobStatus(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateNotificationJobStatusParams) error
	DeleteNotificationJobsBefore(ctx context.Context, db sqlc.DBTX, arg sqlc.DeleteNotificationJobsBeforeParams) (int64, error)
}

type NotificationRepository struct {
	queries NotificationWriteQueries
	db      sqlc.DBTX
}

func NewNotificationRepository(queries NotificationWriteQueries, db sqlc.DBTX) *NotificationRepository {
	return &NotificationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *NotificationRepository) Enqueue(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	params := sqlc.CreateNotificationJobParams{
		Kind:    kind,
		Topic:   topic,
		Payload: payload,
		RunAt:   pgconv.TimeToPgtype(runAt),
		Status:  shared.OutboxQueued,
	}

	if err := r.queries.CreateNotificationJob(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}

	return nil
}

func (r *NotificationRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]shared.OutboxJob, error) {
	rows, err := r.queries.ClaimDueNotificationJobs(ctx, r.db, sqlc.ClaimDueNotificationJobsParams{
		Now: pgconv.TimeToPgtype(now),
		// #nosec G115 -- batch size comes from configuration
		BatchSize: int32(limit),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}

	jobs := make([]shared.OutboxJob, len(rows))
	for i, row := range rows {
		jobs[i] = shared.OutboxJob{
			ID:        row.ID,
			Kind:      row.Kind,
			Topic:     row.Topic,
			Payload:   row.Payload,
			RunAt:     pgconv.TimeFromPgtype(row.RunAt),
			Attempts:  int(row.Attempts),
			Status:    row.Status,
			LastError: pgconv.StringPtrFromPgtype(row.LastError),
		}
	}
	return jobs, nil
}

func (r *NotificationRepository) UpdateStatus(ctx context.Context, job shared.OutboxJob) error {
	params := sqlc.UpdateNotificationJobStatusParams{
		ID:     job.ID,
		Status: job.Status,
		// #nosec G115 -- attempts are capped by the relay
		Attempts:  int32(job.Attempts),
		LastError: pgconv.StringPtrToPgtype(job.LastError),
		RunAt:     pgconv.TimeToPgtype(job.RunAt),
	}

	if err := r.queries.UpdateNotificationJobStatus(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}

	return nil
}

func (r *NotificationRepository) PurgeBefore(ctx context.Context, cutoff time.Time, includeQueued bool) (int64, error) {
	count, err := r.queries.DeleteNotificationJobsBefore(ctx, r.db, sqlc.DeleteNotificationJobsBeforeParams{
		Cutoff:        pgconv.TimeToPgtype(cutoff),
		IncludeQueued: includeQueued,
	})
	if err != nil {
		return 0, infra.WrapRepoErr("failed to purge notification jobs", err)
	}

	return count, nil
}
