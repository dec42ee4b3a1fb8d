package service

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/devanshjhaa/TicketsManage/internal/domain"
	"github.com/devanshjhaa/TicketsManage/internal/events"
	"github.com/devanshjhaa/TicketsManage/internal/policy"
	"github.com/devanshjhaa/TicketsManage/internal/repository"
	"github.com/devanshjhaa/TicketsManage/internal/storage"
	apperrors "github.com/devanshjhaa/TicketsManage/pkg/util"
)

// 25 MiB, matching the multipart body limit on the server.
const maxAttachmentSize = 25 << 20

// AttachmentService stores file uploads against tickets. Blob bytes go to the
// BlobStore, metadata and the audit record go to Postgres.
type AttachmentService struct {
	repos      repository.Repositories
	tx         repository.TxManager
	dispatcher events.Dispatcher
	blobs      storage.BlobStore
	tickets    *TicketService
	logger     *zap.Logger
}

// NewAttachmentService constructs the service.
func NewAttachmentService(repos repository.Repositories, tx repository.TxManager, dispatcher events.Dispatcher, blobs storage.BlobStore, tickets *TicketService, logger *zap.Logger) *AttachmentService {
	return &AttachmentService{
		repos:      repos,
		tx:         tx,
		dispatcher: dispatcher,
		blobs:      blobs,
		tickets:    tickets,
		logger:     logger,
	}
}

// UploadInput describes one incoming file.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload saves the blob, then records metadata and the audit entry in one
// transaction. A failed transaction removes the orphaned blob.
func (s *AttachmentService) Upload(ctx context.Context, requester *domain.User, ticketID string, input UploadInput) (*domain.Attachment, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, apperrors.NewValidationError("file name is required", nil)
	}
	if input.Size > maxAttachmentSize {
		return nil, apperrors.NewValidationError("file exceeds maximum size", map[string]any{"max_bytes": maxAttachmentSize})
	}

	ticket, err := s.repos.Tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapTicketLoadError(err)
	}
	if !policy.CanAccess(ticket, requester) {
		return nil, apperrors.NewForbidden("access denied")
	}

	key, size, err := s.blobs.Save(ticket.ID, fileName, io.LimitReader(input.Body, maxAttachmentSize+1))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if size > maxAttachmentSize {
		s.removeBlob(key)
		return nil, apperrors.NewValidationError("file exceeds maximum size", map[string]any{"max_bytes": maxAttachmentSize})
	}

	attachment := &domain.Attachment{
		TicketID:    ticket.ID,
		UploadedBy:  requester.ID,
		FileName:    fileName,
		ContentType: input.ContentType,
		SizeBytes:   size,
		StorageKey:  key,
	}
	var event events.Event

	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Attachments.Create(ctx, attachment); err != nil {
			return apperrors.MapError(err)
		}
		if err := s.tickets.appendActivity(ctx, repos, ticket.ID, requester.ID, domain.ActivityAttachmentAdded, "Attached "+fileName); err != nil {
			return err
		}

		owner, err := repos.Users.GetByID(ctx, ticket.OwnerID)
		if err != nil {
			return apperrors.MapError(err)
		}
		event = events.Event{
			Type:     events.EventAttachmentUploaded,
			TicketID: ticket.ID,
			ActorID:  requester.ID,
			Payload: events.AttachmentUploadedPayload{
				AttachmentID: attachment.ID,
				Title:        ticket.Title,
				FileName:     fileName,
				OwnerEmail:   owner.Email,
			},
		}
		return nil
	})
	if err != nil {
		s.removeBlob(key)
		return nil, err
	}

	s.tickets.publish(ctx, event)
	return attachment, nil
}

// List returns attachment metadata for a ticket.
func (s *AttachmentService) List(ctx context.Context, requester *domain.User, ticketID string) ([]domain.Attachment, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	ticket, err := s.repos.Tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapTicketLoadError(err)
	}
	if !policy.CanAccess(ticket, requester) {
		return nil, apperrors.NewForbidden("access denied")
	}

	attachments, err := s.repos.Attachments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachments, nil
}

// Download opens the blob for streaming. The caller owns the returned reader.
func (s *AttachmentService) Download(ctx context.Context, requester *domain.User, attachmentID string) (*domain.Attachment, io.ReadCloser, error) {
	if requester == nil {
		return nil, nil, apperrors.NewUnauthorized("authentication required")
	}

	attachment, err := s.repos.Attachments.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	ticket, err := s.repos.Tickets.GetByID(ctx, attachment.TicketID)
	if err != nil {
		return nil, nil, mapTicketLoadError(err)
	}
	if !policy.CanAccess(ticket, requester) {
		return nil, nil, apperrors.NewForbidden("access denied")
	}

	body, err := s.blobs.Open(attachment.StorageKey)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return attachment, body, nil
}

func (s *AttachmentService) removeBlob(key string) {
	if err := s.blobs.Remove(key); err != nil {
		s.logger.Warn("failed to remove orphaned blob", zap.String("key", key), zap.Error(err))
	}
}
