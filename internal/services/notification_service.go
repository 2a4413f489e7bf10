package services

import (
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"github.com/yukikurage/vcc-collab-api/internal/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService is the append-only notification ledger.
type NotificationService struct {
	repo  repository.NotificationRepository
	clock clock.Clock
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repository.NotificationRepository, clk clock.Clock) *NotificationService {
	return &NotificationService{repo: repo, clock: clk}
}

// Add records one notification in front of the ledger.
func (s *NotificationService) Add(n models.Notification) error {
	return s.AddMany([]models.Notification{n})
}

// AddMany records notifications in one write. The result reads as if each
// had been added in turn, so the last one ends up first.
func (s *NotificationService) AddMany(ns []models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	now := s.clock.Now()
	batch := make([]models.Notification, len(ns))
	for i, n := range ns {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		batch[len(ns)-1-i] = n
	}

	_, err := s.repo.Update(func(all *[]models.Notification) error {
		*all = append(batch, *all...)
		return nil
	})
	return err
}

// ForUser returns the notifications addressed to name, newest first.
func (s *NotificationService) ForUser(name string) []models.Notification {
	if name == "" {
		return []models.Notification{}
	}
	out := []models.Notification{}
	for _, n := range s.repo.List() {
		if n.ToName == name {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(id string) error {
	_, err := s.repo.Update(func(all *[]models.Notification) error {
		for i := range *all {
			if (*all)[i].ID == id {
				(*all)[i].Read = true
				return nil
			}
		}
		return ErrNotificationNotFound
	})
	return err
}

// MarkAllRead flags every notification addressed to name as read.
func (s *NotificationService) MarkAllRead(name string) error {
	_, err := s.repo.Update(func(all *[]models.Notification) error {
		for i := range *all {
			if (*all)[i].ToName == name {
				(*all)[i].Read = true
			}
		}
		return nil
	})
	return err
}

// UnreadCount returns how many notifications addressed to name are unread.
func (s *NotificationService) UnreadCount(name string) int {
	count := 0
	for _, n := range s.repo.List() {
		if n.ToName == name && !n.Read {
			count++
		}
	}
	return count
}
