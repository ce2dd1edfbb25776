package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/linistrate/linictl/internal/model"
	"github.com/pkg/errors"
)

// API route prefixes, per backend router.
const (
	userRoute       = "/user/v1"
	assetRoute      = "/asset/v1"
	groupRoute      = "/group/v1"
	technologyRoute = "/technology/v1"
	blogRoute       = "/blog/v1"
	commandRoute    = "/command/v1"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the shape both loginuser and create-user return.
type authResponse struct {
	Token    string `json:"token"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Login authenticates with the backend and installs the returned session.
// On any failure - bad credentials, backend rejection or transport error -
// ErrAuthentication is returned and the existing session is left untouched.
func (c *Client) Login(ctx context.Context, identifier, password string) (*model.User, error) {
	out := &authResponse{}

	err := c.public(ctx, http.MethodPost, userRoute+"/loginuser", &loginRequest{Identifier: identifier, Password: password}, out)
	if err != nil {
		return nil, errors.Wrap(ErrAuthentication, err.Error())
	}

	user := &model.User{ID: out.UserID, Username: out.Username, Email: out.Email}

	if err := c.session.Set(user, out.Token); err != nil {
		return nil, err
	}

	return user, nil
}

// Register creates a new account and installs the returned session, with
// the same failure contract as Login.
func (c *Client) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	out := &authResponse{}

	err := c.public(ctx, http.MethodPost, userRoute+"/create-user", &registerRequest{Username: username, Email: email, Password: password}, out)
	if err != nil {
		return nil, errors.Wrap(ErrAuthentication, err.Error())
	}

	user := &model.User{ID: out.UserID, Username: out.Username, Email: out.Email}

	if err := c.session.Set(user, out.Token); err != nil {
		return nil, err
	}

	return user, nil
}

// Logout clears the local session unconditionally. The backend holds no
// revocable server-side session for the token.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// Me returns the username the backend resolves for the current token.
func (c *Client) Me(ctx context.Context) (string, error) {
	out := struct {
		User string `json:"user"`
	}{}

	if err := c.do(ctx, http.MethodGet, userRoute+"/me", nil, &out); err != nil {
		return "", err
	}

	return out.User, nil
}

// Users lists the usernames known to the backend.
func (c *Client) Users(ctx context.Context) ([]string, error) {
	out := struct {
		Users []string `json:"users"`
	}{}

	if err := c.do(ctx, http.MethodGet, userRoute+"/get-users", nil, &out); err != nil {
		return nil, err
	}

	return out.Users, nil
}

// UpdateEmail changes the account email address and refreshes the stored
// session record so the local user data does not go stale.
func (c *Client) UpdateEmail(ctx context.Context, email string) error {
	body := struct {
		Email string `json:"email"`
	}{Email: email}

	if err := c.do(ctx, http.MethodPost, userRoute+"/update-user-email", &body, nil); err != nil {
		return err
	}

	user := c.session.Current()
	if user == nil {
		return nil
	}

	token, err := c.session.Token()
	if err != nil {
		return err
	}

	updated := *user
	updated.Email = email

	return c.session.Set(&updated, token.AccessToken)
}

// UpdatePassword changes the account password. The backend verifies the
// current password and responds 403 when it does not match.
func (c *Client) UpdatePassword(ctx context.Context, current, updated string) error {
	body := struct {
		CurPassword string `json:"curpassword"`
		NewPassword string `json:"newpassword"`
	}{CurPassword: current, NewPassword: updated}

	return c.do(ctx, http.MethodPost, userRoute+"/update-user-password", &body, nil)
}

// DeleteAccount removes the account server-side and clears the local
// session.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, userRoute+"/delete-user", nil, nil); err != nil {
		return err
	}

	return c.session.Clear()
}

// AssetCreate is the asset creation payload. Naming a group that does not
// exist yet creates it - the group fields are an upsert contract.
type AssetCreate struct {
	Name       string `json:"name"`
	IP         string `json:"ip"`
	Technology string `json:"technology"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Group      string `json:"group"`
	GroupColor string `json:"group_color,omitempty"`
}

// AssetUpdate is the asset edit payload. The IP address is immutable after
// creation and deliberately has no field here.
type AssetUpdate struct {
	Name       string `json:"name,omitempty"`
	Technology string `json:"technology,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
	Group      string `json:"group,omitempty"`
	GroupColor string `json:"group_color,omitempty"`
}

// Assets lists the active assets owned by the current user.
func (c *Client) Assets(ctx context.Context) (model.Assets, error) {
	assets := model.Assets{}

	if err := c.do(ctx, http.MethodGet, assetRoute+"/get-assets", nil, &assets); err != nil {
		return nil, err
	}

	return assets, nil
}

// CreateAsset registers a new asset and returns the created record.
func (c *Client) CreateAsset(ctx context.Context, create *AssetCreate) (*model.Asset, error) {
	asset := &model.Asset{}

	if err := c.do(ctx, http.MethodPost, assetRoute+"/add-asset", create, asset); err != nil {
		return nil, err
	}

	return asset, nil
}

// UpdateAsset applies the given changes to an asset by id.
func (c *Client) UpdateAsset(ctx context.Context, id int, update *AssetUpdate) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("%s/update-asset/%d", assetRoute, id), update, nil)
}

// DeleteAsset removes an asset by id. The backend soft-deletes the record.
func (c *Client) DeleteAsset(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/delete-asset/%d", assetRoute, id), nil, nil)
}

// Groups lists all groups.
func (c *Client) Groups(ctx context.Context) ([]model.Group, error) {
	groups := []model.Group{}

	if err := c.do(ctx, http.MethodGet, groupRoute+"/get-groups", nil, &groups); err != nil {
		return nil, err
	}

	return groups, nil
}

// Technologies lists the technology reference vocabulary.
func (c *Client) Technologies(ctx context.Context) ([]model.Technology, error) {
	technologies := []model.Technology{}

	if err := c.do(ctx, http.MethodGet, technologyRoute+"/get-technologies", nil, &technologies); err != nil {
		return nil, err
	}

	return technologies, nil
}

// BlogCreate is the payload for blog creation and edits. AssetPostType
// marks the entry as attached to the asset referenced by AssetID.
type BlogCreate struct {
	Title         string `json:"blog_title"`
	Content       string `json:"blog_content"`
	AssetPostType bool   `json:"asset_post_type"`
	AssetID       int    `json:"asset_id,omitempty"`
}

// Blogs lists the active blog entries owned by the current user.
func (c *Client) Blogs(ctx context.Context) ([]model.Blog, error) {
	blogs := []model.Blog{}

	if err := c.do(ctx, http.MethodGet, blogRoute+"/get-blogs", nil, &blogs); err != nil {
		return nil, err
	}

	return blogs, nil
}

// CreateBlog adds a blog entry.
func (c *Client) CreateBlog(ctx context.Context, create *BlogCreate) error {
	return c.do(ctx, http.MethodPost, blogRoute+"/create-blog", create, nil)
}

// EditBlog replaces the title, content and asset attachment of an entry.
func (c *Client) EditBlog(ctx context.Context, id int, edit *BlogCreate) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("%s/edit-blog/%d", blogRoute, id), edit, nil)
}

// DeleteBlog removes a blog entry by id.
func (c *Client) DeleteBlog(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/delete-blog/%d", blogRoute, id), nil, nil)
}

type commandRequest struct {
	IP      string `json:"ip"`
	Command string `json:"command"`
}

// RunCommand submits a shell command for execution on the asset with the
// given IP and waits for the outcome. Remote command failure is reported in
// the result, not as an error.
func (c *Client) RunCommand(ctx context.Context, ip, command string) (*model.CommandResult, error) {
	result := &model.CommandResult{}

	if err := c.do(ctx, http.MethodPost, commandRoute+"/command-request", &commandRequest{IP: ip, Command: command}, result); err != nil {
		return nil, err
	}

	return result, nil
}

// Executions returns the command execution history, most recent first.
func (c *Client) Executions(ctx context.Context) ([]model.Execution, error) {
	executions := []model.Execution{}

	if err := c.do(ctx, http.MethodGet, commandRoute+"/executions", nil, &executions); err != nil {
		return nil, err
	}

	return executions, nil
}

// Ping probes the backend home route, unauthenticated.
func (c *Client) Ping(ctx context.Context) error {
	return c.public(ctx, http.MethodGet, "/", nil, nil)
}
