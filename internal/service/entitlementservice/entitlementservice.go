package entitlementservice

import (
	"context"
	"time"

	"github.com/edupay-dz/edupay/internal/domain"
)

type SubscriptionRepo interface {
	FindActive(ctx context.Context, userID, teacherID int) (*domain.Subscription, error)
}

// Service is the read path answering "can this user access this content right
// now". It never writes and is safe for unlimited concurrent callers.
type Service struct {
	subscriptionRepo SubscriptionRepo
}

func New(subscriptionRepo SubscriptionRepo) *Service {
	return &Service{
		subscriptionRepo: subscriptionRepo,
	}
}

// Resolve derives the entitlement decision. The subscription status column is
// a cache maintained by the sweep; the time window is re-checked here and is
// the ground truth, so a lapsed subscription is denied even before the sweep
// has demoted it.
func (s *Service) Resolve(ctx context.Context, user domain.User, content domain.ContentItem) (*domain.EntitlementDecision, error) {
	if content.Free {
		return &domain.EntitlementDecision{Granted: true, AccessType: domain.AccessTypeFree}, nil
	}
	if user.Role == domain.RoleAdmin {
		return &domain.EntitlementDecision{Granted: true, AccessType: domain.AccessTypeAdmin}, nil
	}

	subscription, err := s.subscriptionRepo.FindActive(ctx, user.ID, content.TeacherID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if subscription == nil || now.Before(subscription.StartsAt) || now.After(subscription.EndsAt) {
		return &domain.EntitlementDecision{
			Granted: false,
			Reason:  domain.ReasonNoActiveSubscription,
		}, nil
	}

	if !hasAccess(subscription, content.RequiredAccess) {
		return &domain.EntitlementDecision{
			Granted: false,
			Reason:  domain.ReasonAccessFlagMissing,
		}, nil
	}

	return &domain.EntitlementDecision{
		Granted:    true,
		AccessType: domain.AccessTypeSubscription,
	}, nil
}

func hasAccess(subscription *domain.Subscription, required string) bool {
	switch required {
	case domain.AccessVideos:
		return subscription.VideosAccess
	case domain.AccessLives:
		return subscription.LivesAccess
	case domain.AccessSchoolEntry:
		return subscription.SchoolEntryAccess
	default:
		return false
	}
}
