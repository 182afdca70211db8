package database

import (
	"context"
	"errors"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
)

type SubscriberRepo struct {
	db *gorm.DB
}

func NewSubscriberRepo(db *gorm.DB) *SubscriberRepo {
	return &SubscriberRepo{db}
}

// NormalizeEmail is the stored form of an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Subscribe creates the subscriber or re-enables an existing one. created reports whether a new
// row was written.
func (r *SubscriberRepo) Subscribe(ctx context.Context, email string, manual bool) (sub *models.Subscriber, created bool, err error) {
	email = NormalizeEmail(email)
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Subscriber
		findErr := tx.Where("email = ?", email).Take(&existing).Error
		switch {
		case findErr == nil:
			existing.Subscribed = true
			sub = &existing
			return tx.Model(&existing).Update("subscribed", true).Error
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			sub = &models.Subscriber{Email: email, Subscribed: true, AddedManually: manual}
			created = true
			return tx.Create(sub).Error
		default:
			return findErr
		}
	})
	if err != nil {
		return nil, false, errs.NewDatabaseError("subscribe", "Subscriber", err)
	}
	return sub, created, nil
}

// Unsubscribe clears the subscribed flag; the row is kept
func (r *SubscriberRepo) Unsubscribe(ctx context.Context, email string) error {
	res := r.db.WithContext(ctx).Model(&models.Subscriber{}).
		Where("email = ?", NormalizeEmail(email)).Update("subscribed", false)
	if res.Error != nil {
		return errs.NewDatabaseError("unsubscribe", "Subscriber", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("Subscriber")
	}
	return nil
}

// FindAll returns every subscriber, newest first
func (r *SubscriberRepo) FindAll(ctx context.Context) ([]models.Subscriber, error) {
	subscribers := []models.Subscriber{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&subscribers).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "Subscriber", err)
	}
	return subscribers, nil
}

func (r *SubscriberRepo) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var sub models.Subscriber
	if err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).Take(&sub).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "Subscriber", err)
	}
	return &sub, nil
}

// SubscribedEmails returns the addresses of every active subscriber
func (r *SubscriberRepo) SubscribedEmails(ctx context.Context) ([]string, error) {
	emails := []string{}
	err := r.db.WithContext(ctx).Model(&models.Subscriber{}).
		Where("subscribed = ?", true).Order("created_at").Pluck("email", &emails).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "Subscriber", err)
	}
	return emails, nil
}

// ResolveRecipients keeps active subscribers and addresses that are not subscribers at all.
// Known addresses that unsubscribed are dropped. The result is deduplicated and keeps input order.
func (r *SubscriberRepo) ResolveRecipients(ctx context.Context, requested []string) ([]string, error) {
	normalized := make([]string, 0, len(requested))
	seen := map[string]bool{}
	for _, e := range requested {
		e = NormalizeEmail(e)
		if e != "" && !seen[e] {
			seen[e] = true
			normalized = append(normalized, e)
		}
	}
	if len(normalized) == 0 {
		return []string{}, nil
	}

	var known []models.Subscriber
	if err := r.db.WithContext(ctx).Where("email IN ?", normalized).Find(&known).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "Subscriber", err)
	}
	unsubscribed := map[string]bool{}
	for _, s := range known {
		if !s.Subscribed {
			unsubscribed[s.Email] = true
		}
	}

	out := make([]string, 0, len(normalized))
	for _, e := range normalized {
		if !unsubscribed[e] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *SubscriberRepo) CountSubscribed(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Subscriber{}).Where("subscribed = ?", true).Count(&n).Error; err != nil {
		return 0, errs.NewDatabaseError("count", "Subscriber", err)
	}
	return n, nil
}
