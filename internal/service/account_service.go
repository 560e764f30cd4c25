package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/azrova/azrovadash/internal/models"
	"github.com/azrova/azrovadash/internal/repository"
)

// AccountService owns the local user directory and its mirror on the panel.
// The compound create/delete sequences are not transactional; a failed local
// write after a successful panel write triggers one compensating panel call
// and, if that also fails, a PartialFailureError.
type AccountService struct {
	users UserStore
	panel PanelAPI
}

func NewAccountService(users UserStore, panel PanelAPI) *AccountService {
	return &AccountService{users: users, panel: panel}
}

// RegisterInput are the raw registration form fields.
type RegisterInput struct {
	Username        string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register validates the form, creates the remote panel identity first, then
// the local record. The duplicate check runs locally before any panel call so
// a rejected registration never creates a remote identity.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Username == "" || input.LastName == "" || input.Email == "" ||
		input.Password == "" || input.ConfirmPassword == "" {
		return nil, ValidationError("All fields are required.")
	}
	if input.Password != input.ConfirmPassword {
		return nil, ValidationError("Passwords do not match.")
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if taken {
		return nil, ErrDuplicateUser
	}

	panelUser, err := s.panel.CreateUser(ctx, models.CreatePanelUserOptions{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.Username,
		LastName:  input.LastName,
		Password:  input.Password,
	})
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		// Compensate: the panel identity exists but the local record does
		// not. Roll the panel side back rather than leaving a silent orphan.
		if delErr := s.panel.DeleteUser(ctx, panelUser.ID); delErr != nil {
			log.Printf("[account] Compensating panel delete failed for %s: %v", input.Username, delErr)
			return nil, &PartialFailureError{Op: "registration", Err: err}
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("save user locally: %w", err)
	}

	log.Printf("[account] Registered user %s (panel id: %d, local id: %d)",
		user.Username, panelUser.ID, user.ID)
	return user, nil
}

// Login matches the submitted credentials against the stored hash. Unknown
// user and wrong password produce the same generic error so the endpoint
// cannot be used to enumerate accounts.
func (s *AccountService) Login(ctx context.Context, login, password string) (*models.User, error) {
	user, err := s.users.GetByUsernameOrEmail(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// UpdateProfile changes username, email and last name on the panel first,
// then locally. currentEmail is the email before the change, used to resolve
// the panel account.
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, currentEmail, username, email, lastName string) error {
	if username == "" || email == "" || lastName == "" {
		return ValidationError("Username, email, and last name are required.")
	}

	panelUser, err := s.panel.FindUserByEmail(ctx, currentEmail)
	if err != nil {
		return err
	}
	if panelUser == nil {
		return ErrPanelUserMissing
	}

	_, err = s.panel.UpdateUser(ctx, panelUser.ID, models.UpdatePanelUserOptions{
		Username:  &username,
		Email:     &email,
		FirstName: &username,
		LastName:  &lastName,
	})
	if err != nil {
		return err
	}

	if err := s.users.UpdateProfile(ctx, userID, username, email); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrDuplicateUser
		}
		return &PartialFailureError{Op: "profile update", Err: err}
	}

	return nil
}

// ChangePassword verifies the current password, stores a new bcrypt hash,
// then syncs the panel password best-effort: a panel failure here does not
// undo the local change.
func (s *AccountService) ChangePassword(ctx context.Context, userID int64, currentEmail, current, newPassword, confirm string) error {
	if current == "" || newPassword == "" || confirm == "" {
		return ValidationError("All password fields are required.")
	}
	if newPassword != confirm {
		return ValidationError("New passwords do not match.")
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("look up user: %w", err)
	}

	if !CheckPassword(current, user.PasswordHash) {
		return ErrIncorrectPassword
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	panelUser, err := s.panel.FindUserByEmail(ctx, currentEmail)
	if err != nil || panelUser == nil {
		log.Printf("[account] Could not resolve panel user %s to sync password: %v", currentEmail, err)
		return nil
	}
	if _, err := s.panel.UpdateUser(ctx, panelUser.ID, models.UpdatePanelUserOptions{Password: &newPassword}); err != nil {
		log.Printf("[account] Failed to sync panel password for user %d: %v", userID, err)
	}

	return nil
}

// DeleteAccount removes the panel identity and the local record, refusing
// while the user still owns servers. A missing panel account does not block
// local deletion.
func (s *AccountService) DeleteAccount(ctx context.Context, userID int64, email string) error {
	panelUser, err := s.panel.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	if panelUser != nil {
		servers, err := s.panel.ListUserServers(ctx, panelUser.ID)
		if err != nil {
			return err
		}
		if len(servers) > 0 {
			return ErrOwningServers
		}
		if err := s.panel.DeleteUser(ctx, panelUser.ID); err != nil {
			return err
		}
	} else {
		log.Printf("[account] Panel user %s not found during deletion, proceeding with local delete", email)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if panelUser != nil {
			// The panel identity is already gone and cannot be restored.
			return &PartialFailureError{Op: "account deletion", Err: err}
		}
		return err
	}

	log.Printf("[account] Deleted user %d", userID)
	return nil
}

// ListUsers returns the local directory for the user-management page.
func (s *AccountService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// ToggleRole flips the admin flag of another user. Admins cannot change
// their own role through this path.
func (s *AccountService) ToggleRole(ctx context.Context, actingUserID, targetUserID int64) error {
	if actingUserID == targetUserID {
		return ErrSelfTarget
	}

	target, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("look up user: %w", err)
	}

	return s.users.SetAdmin(ctx, targetUserID, !target.IsAdmin)
}

// AdminDeleteUser removes another user's panel identity and local record.
// Admins cannot delete themselves through this path, and users owning servers
// are refused the same way self-deletion is.
func (s *AccountService) AdminDeleteUser(ctx context.Context, actingUserID, targetUserID int64) error {
	if actingUserID == targetUserID {
		return ErrSelfTarget
	}

	target, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("look up user: %w", err)
	}

	return s.DeleteAccount(ctx, target.ID, target.Email)
}
