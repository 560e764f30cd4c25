package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/azrova/azrovadash/internal/models"
)

// CreateUser creates a remote identity on the panel. Any non-201 response or
// transport failure surfaces as an error carrying the panel's detail message.
func (c *Client) CreateUser(ctx context.Context, opts models.CreatePanelUserOptions) (*models.PanelUser, error) {
	payload := map[string]any{
		"username":    opts.Username,
		"email":       opts.Email,
		"first_name":  opts.FirstName,
		"last_name":   opts.LastName,
		"password":    opts.Password,
		"root_admin":  opts.IsAdmin,
		"external_id": nil,
	}

	body, status, err := c.doApplication(ctx, http.MethodPost, "/users", payload)
	if err != nil {
		logPanelError("create user "+opts.Username, err)
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status %d when creating user", status)
	}

	user := &models.PanelUser{}
	if err := decodeObject(body, "user", user); err != nil {
		return nil, err
	}

	log.Printf("[panel] Created panel user %s (id: %d)", user.Username, user.ID)
	return user, nil
}

// FindUserByEmail runs an exact-filter query. A missing user is not an error:
// the result is (nil, nil). Any other failure propagates.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*models.PanelUser, error) {
	body, _, err := c.doApplication(ctx, http.MethodGet, "/users?"+encodeFilter("filter[email]", email), nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		logPanelError("find user "+email, err)
		return nil, err
	}

	var users []models.PanelUser
	err = decodeList(body, func(attributes json.RawMessage) error {
		var user models.PanelUser
		if jsonErr := decodeAttributes(attributes, &user); jsonErr != nil {
			return jsonErr
		}
		users = append(users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// UpdateUser applies a partial update to a panel user.
func (c *Client) UpdateUser(ctx context.Context, userID int, opts models.UpdatePanelUserOptions) (*models.PanelUser, error) {
	payload := map[string]any{}
	if opts.Username != nil {
		payload["username"] = *opts.Username
	}
	if opts.Email != nil {
		payload["email"] = *opts.Email
	}
	if opts.FirstName != nil {
		payload["first_name"] = *opts.FirstName
	}
	if opts.LastName != nil {
		payload["last_name"] = *opts.LastName
	}
	if opts.Password != nil {
		payload["password"] = *opts.Password
	}
	if opts.IsAdmin != nil {
		payload["root_admin"] = *opts.IsAdmin
	}

	body, _, err := c.doApplication(ctx, http.MethodPatch, fmt.Sprintf("/users/%d", userID), payload)
	if err != nil {
		logPanelError(fmt.Sprintf("update user %d", userID), err)
		return nil, err
	}

	user := &models.PanelUser{}
	if err := decodeObject(body, "user", user); err != nil {
		return nil, err
	}

	log.Printf("[panel] Updated panel user id %d", userID)
	return user, nil
}

// DeleteUser hard-deletes a panel user.
func (c *Client) DeleteUser(ctx context.Context, userID int) error {
	_, status, err := c.doApplication(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", userID), nil)
	if err != nil {
		logPanelError(fmt.Sprintf("delete user %d", userID), err)
		return err
	}
	if status != http.StatusNoContent {
		return fmt.Errorf("unexpected status %d when deleting user", status)
	}

	log.Printf("[panel] Deleted panel user id %d", userID)
	return nil
}
