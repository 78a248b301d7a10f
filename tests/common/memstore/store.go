//go:build unit || e2e

// Package memstore is an in-memory stand-in for the Postgres unit of work. It keeps the
// conditional-update and exclusion semantics of the SQL so use cases can be exercised
// without a database.
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/domain/resource"
	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/usecase/readmodel"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

type Job struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

type state struct {
	reservations map[uuid.UUID]reservation.Reservation
	issues       map[uuid.UUID]coupon.Issue
	jobs         []Job
}

func (s state) clone() state {
	c := state{
		reservations: make(map[uuid.UUID]reservation.Reservation, len(s.reservations)),
		issues:       make(map[uuid.UUID]coupon.Issue, len(s.issues)),
		jobs:         append([]Job(nil), s.jobs...),
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.issues {
		c.issues[k] = v
	}
	return c
}

// Store serializes transactions and rolls back every write of a failed one.
type Store struct {
	mu sync.Mutex

	users      map[uuid.UUID]*user.User
	resources  map[uuid.UUID]*resource.Resource
	promotions map[uuid.UUID]*coupon.Promotion
	data       state

	// FailExpire makes ExpireIfStale fail for the given reservation.
	FailExpire map[uuid.UUID]error
}

func New() *Store {
	return &Store{
		users:      make(map[uuid.UUID]*user.User),
		resources:  make(map[uuid.UUID]*resource.Resource),
		promotions: make(map[uuid.UUID]*coupon.Promotion),
		data: state{
			reservations: make(map[uuid.UUID]reservation.Reservation),
			issues:       make(map[uuid.UUID]coupon.Issue),
		},
		FailExpire: make(map[uuid.UUID]error),
	}
}

func (s *Store) AddUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID()] = u
}

func (s *Store) AddResource(r *resource.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[r.ID()] = r
}

func (s *Store) AddPromotion(p *coupon.Promotion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promotions[p.ID()] = p
}

func (s *Store) AddIssue(i *coupon.Issue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.issues[i.ID()] = *i
}

func (s *Store) AddReservation(r *reservation.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.reservations[r.ID()] = *r
}

func (s *Store) Reservation(id uuid.UUID) (*reservation.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.reservations[id]
	return &r, ok
}

func (s *Store) Reservations() []*reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*reservation.Reservation, 0, len(s.data.reservations))
	for _, r := range s.data.reservations {
		r := r
		out = append(out, &r)
	}
	return out
}

func (s *Store) Issue(id uuid.UUID) (*coupon.Issue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.data.issues[id]
	return &i, ok
}

func (s *Store) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Job(nil), s.data.jobs...)
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(ctx, &tx{s: s}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return &reads{s: s, lock: true}
}

type tx struct {
	s *Store
}

func (t *tx) Reservations() shared.ReservationRepository   { return &reservationRepo{s: t.s} }
func (t *tx) CouponIssues() shared.CouponIssueRepository   { return &issueRepo{s: t.s} }
func (t *tx) Promotions() shared.PromotionRepository       { return &promotionRepo{s: t.s} }
func (t *tx) Notifications() shared.NotificationRepository { return &notificationRepo{s: t.s} }
func (t *tx) Reads() shared.CommandReads                   { return &reads{s: t.s} }

type reads struct {
	s    *Store
	lock bool
}

func (r *reads) ActiveUserByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	u, ok := r.s.users[id]
	if !ok || !u.IsActive() {
		return nil, infra.NewRepoErr(infra.KindNotFound, "user not found", nil)
	}
	return u, nil
}

func (r *reads) ActiveResourceByID(_ context.Context, id uuid.UUID) (*resource.Resource, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	res, ok := r.s.resources[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "parking zone not found", nil)
	}
	return res, nil
}

type reservationRepo struct {
	s *Store
}

func (r *reservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	for _, existing := range r.s.data.reservations {
		if existing.ResourceID() == res.ResourceID() && existing.IsActive() && existing.TimeSlot().Overlaps(res.TimeSlot()) {
			return infra.NewRepoErr(infra.KindConflict, "reservations_no_active_overlap", nil)
		}
	}
	r.s.data.reservations[res.ID()] = *res
	return nil
}

func (r *reservationRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := r.s.data.reservations[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found", nil)
	}
	return &res, nil
}

func (r *reservationRepo) HasActiveOverlap(_ context.Context, resourceID uuid.UUID, slot reservation.TimeSlot, userID *uuid.UUID) (bool, error) {
	for _, existing := range r.s.data.reservations {
		if existing.ResourceID() != resourceID || !existing.IsActive() {
			continue
		}
		if userID != nil && existing.UserID() != *userID {
			continue
		}
		if existing.TimeSlot().Overlaps(slot) {
			return true, nil
		}
	}
	return false, nil
}

func (r *reservationRepo) UpdateStatus(_ context.Context, res *reservation.Reservation, from reservation.Status) (bool, error) {
	stored, ok := r.s.data.reservations[res.ID()]
	if !ok || stored.Status() != from {
		return false, nil
	}
	r.s.data.reservations[res.ID()] = *res
	return true, nil
}

func (r *reservationRepo) ListStalePendingIDs(_ context.Context, createdBefore time.Time, skip []uuid.UUID, limit int) ([]uuid.UUID, error) {
	var stale []reservation.Reservation
	for _, res := range r.s.data.reservations {
		if slices.Contains(skip, res.ID()) {
			continue
		}
		if res.Status() == reservation.StatusPending && res.CreatedAt().Before(createdBefore) {
			stale = append(stale, res)
		}
	}
	sort.Slice(stale, func(i, j int) bool {
		if stale[i].CreatedAt().Equal(stale[j].CreatedAt()) {
			return stale[i].ID().String() < stale[j].ID().String()
		}
		return stale[i].CreatedAt().Before(stale[j].CreatedAt())
	})
	if len(stale) > limit {
		stale = stale[:limit]
	}
	ids := make([]uuid.UUID, len(stale))
	for i, res := range stale {
		ids[i] = res.ID()
	}
	return ids, nil
}

func (r *reservationRepo) ExpireIfStale(_ context.Context, id uuid.UUID, createdBefore, now time.Time) (bool, error) {
	if err, ok := r.s.FailExpire[id]; ok {
		return false, err
	}
	res, ok := r.s.data.reservations[id]
	if !ok || res.Status() != reservation.StatusPending || !res.CreatedAt().Before(createdBefore) {
		return false, nil
	}
	if err := res.ExpirePayment(now); err != nil {
		return false, err
	}
	r.s.data.reservations[id] = res
	return true, nil
}

type issueRepo struct {
	s *Store
}

func (r *issueRepo) Create(_ context.Context, issue *coupon.Issue) error {
	r.s.data.issues[issue.ID()] = *issue
	return nil
}

func (r *issueRepo) FindByID(_ context.Context, id uuid.UUID) (*coupon.Issue, error) {
	issue, ok := r.s.data.issues[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "coupon issue not found", nil)
	}
	return &issue, nil
}

func (r *issueRepo) MarkUsed(_ context.Context, id uuid.UUID, now time.Time) (bool, error) {
	issue, ok := r.s.data.issues[id]
	if !ok || issue.Status() != coupon.IssueStatusIssued || issue.ExpiresAt().Before(now) {
		return false, nil
	}
	if err := issue.Use(now); err != nil {
		return false, nil
	}
	r.s.data.issues[id] = issue
	return true, nil
}

func (r *issueRepo) CancelUsage(_ context.Context, id uuid.UUID, now time.Time) (bool, error) {
	issue, ok := r.s.data.issues[id]
	if !ok || issue.Status() != coupon.IssueStatusUsed || issue.ExpiresAt().Before(now) {
		return false, nil
	}
	if err := issue.CancelUsage(); err != nil {
		return false, nil
	}
	r.s.data.issues[id] = issue
	return true, nil
}

func (r *issueRepo) ExpireDue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, issue := range r.s.data.issues {
		if issue.Status() != coupon.IssueStatusIssued || !issue.ExpiresAt().Before(now) {
			continue
		}
		if err := issue.Expire(now); err != nil {
			continue
		}
		r.s.data.issues[id] = issue
		n++
	}
	return n, nil
}

func (r *issueRepo) CountIssued(_ context.Context, promotionID uuid.UUID) (int, error) {
	n := 0
	for _, issue := range r.s.data.issues {
		if issue.PromotionID() == promotionID {
			n++
		}
	}
	return n, nil
}

func (r *issueRepo) CountIssuedForUser(_ context.Context, promotionID, userID uuid.UUID) (int, error) {
	n := 0
	for _, issue := range r.s.data.issues {
		if issue.PromotionID() == promotionID && issue.UserID() == userID {
			n++
		}
	}
	return n, nil
}

type promotionRepo struct {
	s *Store
}

func (r *promotionRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*coupon.Promotion, error) {
	p, ok := r.s.promotions[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "promotion not found", nil)
	}
	return p, nil
}

type notificationRepo struct {
	s *Store
}

func (r *notificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	r.s.data.jobs = append(r.s.data.jobs, Job{Kind: kind, Topic: topic, Payload: payload, RunAt: runAt})
	return nil
}

// Read side, mirroring the readstore queries.

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*readmodel.ReservationRM, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.reservations[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found", nil)
	}
	return toRM(&r), nil
}

func (s *Store) ListByUser(_ context.Context, userID uuid.UUID, after *readmodel.Keyset, limit int) ([]*readmodel.ReservationRM, error) {
	return s.list(func(r reservation.Reservation) bool { return r.UserID() == userID }, after, limit), nil
}

func (s *Store) ListByResource(_ context.Context, resourceID uuid.UUID, after *readmodel.Keyset, limit int) ([]*readmodel.ReservationRM, error) {
	return s.list(func(r reservation.Reservation) bool { return r.ResourceID() == resourceID }, after, limit), nil
}

func (s *Store) ListCouponIssuesByUser(_ context.Context, userID uuid.UUID, status string) ([]*readmodel.CouponIssueRM, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*readmodel.CouponIssueRM
	for _, i := range s.data.issues {
		if i.UserID() != userID || (status != "" && i.Status().String() != status) {
			continue
		}
		out = append(out, &readmodel.CouponIssueRM{
			ID:            i.ID(),
			PromotionID:   i.PromotionID(),
			UserID:        i.UserID(),
			DiscountType:  string(i.Discount().Type()),
			DiscountValue: i.Discount().Value(),
			IssuedAt:      i.IssuedAt(),
			ExpiresAt:     i.ExpiresAt(),
			UsedAt:        i.UsedAt(),
			Status:        i.Status().String(),
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].IssuedAt.After(out[b].IssuedAt) })
	return out, nil
}

func (s *Store) list(match func(reservation.Reservation) bool, after *readmodel.Keyset, limit int) []*readmodel.ReservationRM {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []*readmodel.ReservationRM
	for _, r := range s.data.reservations {
		if match(r) {
			r := r
			rows = append(rows, toRM(&r))
		}
	}
	sort.Slice(rows, func(i, j int) bool { return newer(rows[i], rows[j].CreatedAt, rows[j].ID) })

	out := make([]*readmodel.ReservationRM, 0, limit)
	for _, rm := range rows {
		if after != nil && !newer(&readmodel.ReservationRM{CreatedAt: after.CreatedAt, ID: after.ID}, rm.CreatedAt, rm.ID) {
			continue
		}
		out = append(out, rm)
		if len(out) == limit {
			break
		}
	}
	return out
}

// newer reports whether rm sorts before (createdAt, id) in (created_at DESC, id DESC) order.
func newer(rm *readmodel.ReservationRM, createdAt time.Time, id uuid.UUID) bool {
	if !rm.CreatedAt.Equal(createdAt) {
		return rm.CreatedAt.After(createdAt)
	}
	return rm.ID.String() > id.String()
}

func toRM(r *reservation.Reservation) *readmodel.ReservationRM {
	q := r.Quote()
	return &readmodel.ReservationRM{
		ID:            r.ID(),
		UserID:        r.UserID(),
		ResourceID:    r.ResourceID(),
		ResourceName:  r.ResourceName(),
		StartTime:     r.TimeSlot().Start(),
		EndTime:       r.TimeSlot().End(),
		OriginalPrice: q.Original().Amount(),
		DiscountPrice: q.Discount().Amount(),
		TotalPrice:    q.Final().Amount(),
		CouponIssueID: r.CouponIssueID(),
		Status:        r.Status().String(),
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
}
