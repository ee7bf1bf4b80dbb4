// Package firestore stores payments as documents in a Cloud Firestore
// collection.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/adyela/payments/internal/config"
	"github.com/adyela/payments/internal/core/domain"
	"github.com/adyela/payments/internal/core/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type paymentDocument struct {
	ID                  string            `firestore:"id"`
	AppointmentID       string            `firestore:"appointmentId"`
	PatientID           string            `firestore:"patientId"`
	ProfessionalID      string            `firestore:"professionalId"`
	Amount              string            `firestore:"amount"`
	Currency            string            `firestore:"currency"`
	Status              string            `firestore:"status"`
	GatewayIntentID     *string           `firestore:"gatewayIntentId"`
	GatewayClientSecret *string           `firestore:"gatewayClientSecret"`
	Metadata            map[string]string `firestore:"metadata"`
	CreatedAt           time.Time         `firestore:"createdAt"`
	UpdatedAt           time.Time         `firestore:"updatedAt"`
}

type PaymentRepository struct {
	client     *firestore.Client
	collection string
	now        func() time.Time
}

var _ ports.PaymentRepository = (*PaymentRepository)(nil)

// NewClient opens a Firestore client. With no credentials file the default
// application credentials are used, which also covers FIRESTORE_EMULATOR_HOST.
func NewClient(ctx context.Context, cfg config.FirestoreConfig) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return client, nil
}

func NewPaymentRepository(client *firestore.Client, collection string) *PaymentRepository {
	return &PaymentRepository{
		client:     client,
		collection: collection,
		now:        time.Now,
	}
}

func (r *PaymentRepository) col() *firestore.CollectionRef {
	return r.client.Collection(r.collection)
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	if p.GatewayIntentID != nil {
		_, err := r.FindByGatewayIntentID(ctx, *p.GatewayIntentID)
		if err == nil {
			return domain.NewDuplicatePaymentError(*p.GatewayIntentID)
		}
		if !domain.IsErrorCode(err, domain.ErrCodePaymentNotFound) {
			return err
		}
	}

	if _, err := r.col().Doc(p.ID.String()).Create(ctx, toDocument(p)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.NewDuplicatePaymentError(p.ID.String())
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	snap, err := r.col().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.NewPaymentNotFoundError(id.String())
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return decode(snap)
}

func (r *PaymentRepository) FindByAppointmentID(ctx context.Context, appointmentID string) (*domain.Payment, error) {
	q := r.col().
		Where("appointmentId", "==", appointmentID).
		OrderBy("createdAt", firestore.Desc).
		Limit(1)
	return r.first(ctx, q, "appointment "+appointmentID)
}

func (r *PaymentRepository) FindByGatewayIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	q := r.col().Where("gatewayIntentId", "==", intentID).Limit(1)
	return r.first(ctx, q, "intent "+intentID)
}

// Update overwrites the document. The existence and intent checks are a
// separate read; concurrent writers follow last-write-wins.
func (r *PaymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	existing, err := r.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if existing.GatewayIntentID != nil {
		if p.GatewayIntentID == nil || *p.GatewayIntentID != *existing.GatewayIntentID {
			attempted := ""
			if p.GatewayIntentID != nil {
				attempted = *p.GatewayIntentID
			}
			return domain.NewIntentAlreadyAssignedError(p.ID.String(), *existing.GatewayIntentID, attempted)
		}
	}

	p.CreatedAt = existing.CreatedAt
	p.Touch(r.now().UTC())

	if _, err := r.col().Doc(p.ID.String()).Set(ctx, toDocument(p)); err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) first(ctx context.Context, q firestore.Query, lookup string) (*domain.Payment, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, domain.NewPaymentNotFoundError(lookup)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	return decode(snap)
}

func decode(snap *firestore.DocumentSnapshot) (*domain.Payment, error) {
	var doc paymentDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode payment %s: %w", snap.Ref.ID, err)
	}
	return fromDocument(doc)
}

func toDocument(p *domain.Payment) paymentDocument {
	meta := p.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	return paymentDocument{
		ID:                  p.ID.String(),
		AppointmentID:       p.AppointmentID,
		PatientID:           p.PatientID,
		ProfessionalID:      p.ProfessionalID,
		Amount:              p.Amount.String(),
		Currency:            string(p.Currency),
		Status:              string(p.Status),
		GatewayIntentID:     p.GatewayIntentID,
		GatewayClientSecret: p.GatewayClientSecret,
		Metadata:            meta,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func fromDocument(doc paymentDocument) (*domain.Payment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment id %q: %w", doc.ID, err)
	}
	amount, err := decimal.NewFromString(doc.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q on payment %s: %w", doc.Amount, doc.ID, err)
	}
	return &domain.Payment{
		ID:                  id,
		AppointmentID:       doc.AppointmentID,
		PatientID:           doc.PatientID,
		ProfessionalID:      doc.ProfessionalID,
		Amount:              amount,
		Currency:            domain.Currency(doc.Currency),
		Status:              domain.PaymentStatus(doc.Status),
		GatewayIntentID:     doc.GatewayIntentID,
		GatewayClientSecret: doc.GatewayClientSecret,
		Metadata:            doc.Metadata,
		CreatedAt:           doc.CreatedAt,
		UpdatedAt:           doc.UpdatedAt,
	}, nil
}
