package services

import "strings"

type UserStore interface {
	GetUser(id string) (*User, error)
	ListUsers() ([]*User, error)
	UpdateUserRole(id, role string) (bool, error)
	DeleteUserCascade(id string) (bool, error)
	ListResultsByUser(userID string) ([]*ResultView, error)
}

type UserService struct {
	store UserStore
}

// Profile is the /me aggregation: the user sans password hash plus their
// attempt history, newest first.
type Profile struct {
	User    *PublicUser   `json:"user"`
	Results []*ResultView `json:"results"`
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) Profile(userID string) (*Profile, error) {
	u, err := s.store.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewNotFoundError("user not found")
	}
	results, err := s.store.ListResultsByUser(userID)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []*ResultView{}
	}
	return &Profile{User: u.Public(), Results: results}, nil
}

func (s *UserService) ListUsers() ([]*PublicUser, error) {
	users, err := s.store.ListUsers()
	if err != nil {
		return nil, err
	}
	out := make([]*PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// UpdateRole changes the target user's role. Admins cannot retarget
// themselves; the self-guard runs before any lookup.
func (s *UserService) UpdateRole(actorID, targetID, role string) (*PublicUser, error) {
	if actorID == targetID {
		return nil, NewForbiddenError("cannot change your own role via this endpoint")
	}
	if role != RoleUser && role != RoleAdmin {
		return nil, NewInvalidError(`invalid role provided, must be "user" or "admin"`)
	}
	u, err := s.store.GetUser(targetID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewNotFoundError("user not found")
	}
	ok, err := s.store.UpdateUserRole(targetID, role)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewNotFoundError("user not found")
	}
	u.Role = role
	return u.Public(), nil
}

// DeleteUser removes the target user and every result they own.
// Like UpdateRole, an admin must target somebody else.
func (s *UserService) DeleteUser(actorID, targetID string) error {
	if actorID == targetID {
		return NewForbiddenError("cannot delete your own account via this endpoint")
	}
	if strings.TrimSpace(targetID) == "" {
		return NewInvalidError("user id required")
	}
	ok, err := s.store.DeleteUserCascade(targetID)
	if err != nil {
		return err
	}
	if !ok {
		return NewNotFoundError("user not found")
	}
	return nil
}
