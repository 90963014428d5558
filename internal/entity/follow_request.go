// Package entity packs stored records into the DTOs served to clients.
package entity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

// ErrFollowRequestNotFound is returned when a follow request id is unknown.
var ErrFollowRequestNotFound = errors.New("follow request not found")

// FollowRequest is a pending request from Follower to follow Followee.
type FollowRequest struct {
	ID         string `validate:"required"`
	FollowerID string `validate:"required"`
	FolloweeID string `validate:"required"`
}

// FollowRequestRef is either a bare id or an already loaded request.
type FollowRequestRef struct {
	ID      string
	Request *FollowRequest
}

// FollowRequestByID references a request that still has to be loaded.
func FollowRequestByID(id string) FollowRequestRef {
	return FollowRequestRef{ID: id}
}

// LoadedFollowRequest references a request the caller already holds.
func LoadedFollowRequest(request FollowRequest) FollowRequestRef {
	return FollowRequestRef{ID: request.ID, Request: &request}
}

// UserRef identifies the viewer a DTO is packed for.
type UserRef struct {
	ID string
}

// PackedUser is the client representation of a user.
type PackedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// PackedFollowRequest is the client representation of a follow request.
type PackedFollowRequest struct {
	ID       string     `json:"id"`
	Follower PackedUser `json:"follower"`
	Followee PackedUser `json:"followee"`
}

// FollowRequestRepository loads follow requests.
type FollowRequestRepository interface {
	// FindByID returns ErrFollowRequestNotFound for unknown ids.
	FindByID(ctx context.Context, id string) (FollowRequest, error)
}

// UserPacker packs a user as seen by me. me may be nil for anonymous viewers.
type UserPacker interface {
	Pack(ctx context.Context, userID string, me *UserRef) (PackedUser, error)
}

// FollowRequestPacker builds PackedFollowRequest values.
type FollowRequestPacker struct {
	requests FollowRequestRepository
	users    UserPacker
	validate *validator.Validate
}

// NewFollowRequestPacker constructs a FollowRequestPacker.
func NewFollowRequestPacker(requests FollowRequestRepository, users UserPacker) *FollowRequestPacker {
	return &FollowRequestPacker{
		requests: requests,
		users:    users,
		validate: validator.New(),
	}
}

// Pack loads src if needed and packs both participants concurrently.
func (p *FollowRequestPacker) Pack(ctx context.Context, src FollowRequestRef, me *UserRef) (PackedFollowRequest, error) {
	request, err := p.resolve(ctx, src)
	if err != nil {
		return PackedFollowRequest{}, err
	}

	packed := PackedFollowRequest{ID: request.ID}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		follower, err := p.users.Pack(groupCtx, request.FollowerID, me)
		if err != nil {
			return fmt.Errorf("pack follower %s: %w", request.FollowerID, err)
		}

		packed.Follower = follower

		return nil
	})

	group.Go(func() error {
		followee, err := p.users.Pack(groupCtx, request.FolloweeID, me)
		if err != nil {
			return fmt.Errorf("pack followee %s: %w", request.FolloweeID, err)
		}

		packed.Followee = followee

		return nil
	})

	if err := group.Wait(); err != nil {
		return PackedFollowRequest{}, err
	}

	return packed, nil
}

// PackMany packs srcs keeping their order. The first failure aborts the rest.
func (p *FollowRequestPacker) PackMany(ctx context.Context, srcs []FollowRequestRef, me *UserRef) ([]PackedFollowRequest, error) {
	packed := make([]PackedFollowRequest, len(srcs))

	group, groupCtx := errgroup.WithContext(ctx)

	for i, src := range srcs {
		group.Go(func() error {
			result, err := p.Pack(groupCtx, src, me)
			if err != nil {
				return err
			}

			packed[i] = result

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return packed, nil
}

func (p *FollowRequestPacker) resolve(ctx context.Context, src FollowRequestRef) (FollowRequest, error) {
	if src.Request != nil {
		if err := p.validate.Struct(src.Request); err != nil {
			return FollowRequest{}, fmt.Errorf("invalid follow request: %w", err)
		}

		return *src.Request, nil
	}

	request, err := p.requests.FindByID(ctx, src.ID)
	if err != nil {
		return FollowRequest{}, fmt.Errorf("find follow request %q: %w", src.ID, err)
	}

	return request, nil
}

// MemoryFollowRequestRepository keeps follow requests in a map.
type MemoryFollowRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]FollowRequest
}

// NewMemoryFollowRequestRepository returns a repository holding requests.
func NewMemoryFollowRequestRepository(requests ...FollowRequest) *MemoryFollowRequestRepository {
	repo := &MemoryFollowRequestRepository{requests: make(map[string]FollowRequest, len(requests))}
	for _, request := range requests {
		repo.requests[request.ID] = request
	}

	return repo
}

// Save stores or replaces a request.
func (r *MemoryFollowRequestRepository) Save(request FollowRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests[request.ID] = request
}

// FindByID implements FollowRequestRepository.
func (r *MemoryFollowRequestRepository) FindByID(ctx context.Context, id string) (FollowRequest, error) {
	if err := ctx.Err(); err != nil {
		return FollowRequest{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	request, ok := r.requests[id]
	if !ok {
		return FollowRequest{}, ErrFollowRequestNotFound
	}

	return request, nil
}
