package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linistrate/linictl/internal/model"
	"github.com/linistrate/linictl/internal/session"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sess := session.NewStore(session.NewMemStorage())

	c, err := New(server.URL, sess, testLogger())
	require.NoError(t, err)

	return c, sess
}

func authBody() map[string]interface{} {
	return map[string]interface{}{
		"user_id":  1,
		"email":    "a@x.com",
		"username": "alice",
		"token":    "abc",
	}
}

func Test_New_RejectsInvalidEndpoint(t *testing.T) {
	sess := session.NewStore(session.NewMemStorage())

	_, err := New("not a url", sess, testLogger())
	assert.Error(t, err)

	_, err = New("/relative/path", sess, testLogger())
	assert.Error(t, err)
}

func Test_Login_InstallsSession(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user/v1/loginuser", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		body := map[string]string{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["identifier"])
		assert.Equal(t, "correctpw", body["password"])

		_ = json.NewEncoder(w).Encode(authBody())
	}))

	user, err := c.Login(context.Background(), "alice", "correctpw")
	require.NoError(t, err)

	assert.Equal(t, &model.User{ID: 1, Username: "alice", Email: "a@x.com"}, user)

	require.True(t, sess.Authenticated())

	token, err := sess.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", token.AccessToken)
}

func Test_Login_BadCredentialsLeaveSessionUntouched(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Incorrect password"}`))
	}))

	// a previous identity is already present
	require.NoError(t, sess.Set(&model.User{ID: 2, Username: "bob"}, "old-token"))

	_, err := c.Login(context.Background(), "alice", "wrongpw")
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Contains(t, err.Error(), "Incorrect password")

	// the failed attempt did not disturb the existing session
	require.True(t, sess.Authenticated())
	assert.Equal(t, "bob", sess.Current().Username)
}

func Test_Login_TransportFailure(t *testing.T) {
	sess := session.NewStore(session.NewMemStorage())

	c, err := New("http://127.0.0.1:1", sess, testLogger())
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.False(t, sess.Authenticated())
}

func Test_Register_InstallsSession(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/v1/create-user", r.URL.Path)

		body := map[string]string{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "a@x.com", body["email"])

		_ = json.NewEncoder(w).Encode(authBody())
	}))

	user, err := c.Register(context.Background(), "alice", "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, sess.Authenticated())
}

func Test_Pipeline_AttachesCredentials(t *testing.T) {
	var (
		gotAuth        string
		gotContentType string
		gotRequestID   string
	)

	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")

		_, _ = w.Write([]byte(`[]`))
	}))

	require.NoError(t, sess.Set(&model.User{ID: 1, Username: "alice"}, "abc"))

	_, err := c.Assets(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.NotEmpty(t, gotRequestID)
}

func Test_Pipeline_NoStaleTokenAfterLogout(t *testing.T) {
	var gotAuth string

	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))

	require.NoError(t, sess.Set(&model.User{ID: 1, Username: "alice"}, "abc"))
	require.NoError(t, c.Logout())

	_, err := c.Assets(context.Background())
	require.NoError(t, err)

	assert.Empty(t, gotAuth)
}

func Test_Pipeline_ExpiredSessionClearedAndNoResult(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	require.NoError(t, sess.Set(&model.User{ID: 1, Username: "alice"}, "abc"))

	assets, err := c.Assets(context.Background())

	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Nil(t, assets)

	// the session is gone, in memory and in storage
	assert.False(t, sess.Authenticated())
	assert.Nil(t, sess.Current())
}

func Test_Pipeline_HTTPErrorCarriesStatusAndDetail(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Asset IP:10.0.0.5 already exists"}`))
	}))

	require.NoError(t, sess.Set(&model.User{ID: 1, Username: "alice"}, "abc"))

	_, err := c.CreateAsset(context.Background(), &AssetCreate{Name: "web01", IP: "10.0.0.5"})
	require.Error(t, err)

	herr := &HTTPError{}
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusBadRequest, herr.StatusCode)
	assert.Equal(t, "Asset IP:10.0.0.5 already exists", herr.Detail)

	// a non-401 failure never disturbs the session
	assert.True(t, sess.Authenticated())
}

func Test_Pipeline_PublicCallIgnores401Handling(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	require.NoError(t, sess.Set(&model.User{ID: 1, Username: "alice"}, "abc"))

	err := c.Ping(context.Background())

	// the public path reports a plain HTTP error and leaves the session alone
	herr := &HTTPError{}
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusUnauthorized, herr.StatusCode)
	assert.True(t, sess.Authenticated())
}

func Test_CreateAsset_GroupUpsertPayload(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/asset/v1/add-asset", r.URL.Path)

		body := map[string]interface{}{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		// naming an unknown group creates it with the given color
		assert.Equal(t, "edge", body["group"])
		assert.Equal(t, "#ff0000", body["group_color"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"asset_id": 7, "name": "web01", "ip": "10.0.0.5", "is_active": true,
		})
	}))

	require.NoError(t, sess.Set(&model.User{ID: 1, Username: "alice"}, "abc"))

	asset, err := c.CreateAsset(context.Background(), &AssetCreate{
		Name:       "web01",
		IP:         "10.0.0.5",
		Technology: "debian",
		Username:   "root",
		Password:   "pw",
		Group:      "edge",
		GroupColor: "#ff0000",
	})
	require.NoError(t, err)

	assert.Equal(t, 7, asset.ID)
	assert.Equal(t, model.AssetStatusActive, asset.Status())
}

func Test_UpdateAsset_OmitsIP(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/asset/v1/update-asset/7", r.URL.Path)

		body := map[string]interface{}{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		_, hasIP := body["ip"]
		assert.False(t, hasIP)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))

	require.NoError(t, sess.Set(&model.User{ID: 1, Username: "alice"}, "abc"))

	err := c.UpdateAsset(context.Background(), 7, &AssetUpdate{Name: "web01-renamed"})
	require.NoError(t, err)
}

func Test_RunCommand_RemoteFailureInResult(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/command/v1/command-request", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ip":      "10.0.0.5",
			"command": "cat /missing",
			"error":   "cat: /missing: No such file or directory",
		})
	}))

	require.NoError(t, sess.Set(&model.User{ID: 1, Username: "alice"}, "abc"))

	result, err := c.RunCommand(context.Background(), "10.0.0.5", "cat /missing")
	require.NoError(t, err)

	assert.True(t, result.Failed())
	assert.Empty(t, result.Output)
}

func Test_RunCommand_OutputLines(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ip":      "10.0.0.5",
			"command": "uname -a; uptime",
			"output":  []string{"Linux web01 6.1.0", "up 12 days"},
		})
	}))

	require.NoError(t, sess.Set(&model.User{ID: 1, Username: "alice"}, "abc"))

	result, err := c.RunCommand(context.Background(), "10.0.0.5", "uname -a; uptime")
	require.NoError(t, err)

	assert.False(t, result.Failed())
	assert.Equal(t, []string{"Linux web01 6.1.0", "up 12 days"}, result.Output)
}

func Test_Executions_Decode(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{
				"command_id": 3,
				"command": "uptime",
				"status": "success",
				"output": "up 12 days",
				"duration": "0.42s",
				"created_at": "2026-08-01T10:00:00Z",
				"asset": "web01",
				"assetIp": "10.0.0.5",
				"group": "edge",
				"groupColor": "#ff0000"
			}
		]`))
	}))

	require.NoError(t, sess.Set(&model.User{ID: 1, Username: "alice"}, "abc"))

	executions, err := c.Executions(context.Background())
	require.NoError(t, err)
	require.Len(t, executions, 1)

	assert.Equal(t, 3, executions[0].ID)
	assert.Equal(t, model.ExecutionStatusSuccess, executions[0].Status)
	assert.Equal(t, "10.0.0.5", executions[0].AssetIP)
	assert.Equal(t, "edge", executions[0].Group)
}

func Test_Me_And_Users(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/v1/me":
			_, _ = w.Write([]byte(`{"user": "alice"}`))
		case "/user/v1/get-users":
			_, _ = w.Write([]byte(`{"users": ["alice", "bob"]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	require.NoError(t, sess.Set(&model.User{ID: 1, Username: "alice"}, "abc"))

	username, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	users, err := c.Users(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, users)
}

func Test_UpdateEmail_RefreshesSessionRecord(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/v1/update-user-email", r.URL.Path)

		body := map[string]string{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "new@x.com", body["email"])

		_, _ = w.Write([]byte(`{"detail": "Email updated successfully"}`))
	}))

	require.NoError(t, sess.Set(&model.User{ID: 1, Username: "alice", Email: "a@x.com"}, "abc"))

	require.NoError(t, c.UpdateEmail(context.Background(), "new@x.com"))

	// the stored identity follows the change, the token does not
	user := sess.Current()
	require.NotNil(t, user)
	assert.Equal(t, "new@x.com", user.Email)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, 1, user.ID)

	token, err := sess.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", token.AccessToken)
}

func Test_Assets_DecodeJoinedGroup(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{
				"asset_id": 7,
				"name": "web01",
				"ip": "10.0.0.5",
				"technology": "debian",
				"username": "root",
				"is_active": true,
				"owner_id": 1,
				"group_r": {"group_id": 2, "name": "edge", "color": "#ff0000"}
			}
		]`))
	}))

	require.NoError(t, sess.Set(&model.User{ID: 1, Username: "alice"}, "abc"))

	assets, err := c.Assets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 1)

	assert.Equal(t, "edge", assets[0].Group.Name)
	assert.Equal(t, "#ff0000", assets[0].Group.Color)
}

func Test_DeleteAccount_ClearsSession(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/user/v1/delete-user", r.URL.Path)
		_, _ = w.Write([]byte(`{"detail": "deleted"}`))
	}))

	require.NoError(t, sess.Set(&model.User{ID: 1, Username: "alice"}, "abc"))

	require.NoError(t, c.DeleteAccount(context.Background()))
	assert.False(t, sess.Authenticated())
}

func Test_MalformedResponseBody(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))

	require.NoError(t, sess.Set(&model.User{ID: 1, Username: "alice"}, "abc"))

	_, err := c.Assets(context.Background())
	assert.ErrorIs(t, err, ErrRequest)
}
