package groups

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nvidal/groupbot/discord"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type createdChannel struct {
	Name       string
	Type       int
	ParentID   string
	Overwrites []discord.PermissionOverwrite
}

// fakeAPI is an in-process stand-in for the Discord REST API, recording
// every mutation the engine performs.
type fakeAPI struct {
	srv *httptest.Server

	mu            sync.Mutex
	guildChannels []discord.Channel
	guildRoles    []discord.Role
	reactors      map[string][]discord.User // message id -> reacted users
	failReactors  map[string]bool           // message id -> respond 500

	nextID          int
	sentMessages    []discord.Message
	editedMessages  map[string]string // message id -> new content
	ownReactions    []string
	createdRoles    []discord.Role
	createdChannels []createdChannel
	assignedRoles   map[string][]string // role id -> user ids

	failRoleCreate bool
}

func newFakeAPI(t *testing.T) *fakeAPI {
	f := &fakeAPI{
		reactors:       make(map[string][]discord.User),
		failReactors:   make(map[string]bool),
		assignedRoles:  make(map[string][]string),
		editedMessages: make(map[string]string),
		nextID:         100,
	}
	f.srv = httptest.NewServer(f)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) client() *discord.Client {
	return discord.NewClient(f.srv.URL, "test-token", time.Second, testLogger())
}

// addCategories seeds both staging categories and returns their ids.
func (f *fakeAPI) addCategories(textName, voiceName string) (textID, voiceID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guildChannels = append(f.guildChannels,
		discord.Channel{ID: "cat-text", Name: textName, Type: discord.ChannelTypeCategory},
		discord.Channel{ID: "cat-voice", Name: voiceName, Type: discord.ChannelTypeCategory},
	)
	return "cat-text", "cat-voice"
}

func (f *fakeAPI) setReactors(messageID string, userIDs ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]discord.User, len(userIDs))
	for i, id := range userIDs {
		users[i] = discord.User{ID: id}
	}
	f.reactors[messageID] = users
}

func (f *fakeAPI) id() string {
	f.nextID++
	return strconv.Itoa(f.nextID)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seg := splitPath(r.URL.Path)
	switch {
	// POST /channels/{c}/messages
	case len(seg) == 3 && seg[0] == "channels" && seg[2] == "messages" && r.Method == http.MethodPost:
		var body struct {
			Content string `json:"content"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		msg := discord.Message{ID: f.id(), ChannelID: seg[1], Content: body.Content}
		f.sentMessages = append(f.sentMessages, msg)
		json.NewEncoder(w).Encode(msg)

	// PATCH /channels/{c}/messages/{m}
	case len(seg) == 4 && seg[0] == "channels" && seg[2] == "messages" && r.Method == http.MethodPatch:
		var body struct {
			Content string `json:"content"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.editedMessages[seg[3]] = body.Content
		json.NewEncoder(w).Encode(discord.Message{ID: seg[3], ChannelID: seg[1], Content: body.Content})

	// PUT /channels/{c}/messages/{m}/reactions/{e}/@me
	case len(seg) == 7 && seg[0] == "channels" && seg[6] == "@me" && r.Method == http.MethodPut:
		f.ownReactions = append(f.ownReactions, seg[3]+"/"+seg[5])
		w.WriteHeader(http.StatusNoContent)

	// GET /channels/{c}/messages/{m}/reactions/{e}
	case len(seg) == 6 && seg[0] == "channels" && seg[4] == "reactions" && r.Method == http.MethodGet:
		if f.failReactors[seg[3]] {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"boom"}`))
			return
		}
		users := f.reactors[seg[3]]
		if users == nil {
			users = []discord.User{}
		}
		json.NewEncoder(w).Encode(users)

	// GET/POST /guilds/{g}/channels
	case len(seg) == 3 && seg[0] == "guilds" && seg[2] == "channels":
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode(f.guildChannels)
			return
		}
		var body struct {
			Name                 string                        `json:"name"`
			Type                 int                           `json:"type"`
			ParentID             string                        `json:"parent_id"`
			PermissionOverwrites []discord.PermissionOverwrite `json:"permission_overwrites"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.createdChannels = append(f.createdChannels, createdChannel{
			Name: body.Name, Type: body.Type, ParentID: body.ParentID, Overwrites: body.PermissionOverwrites,
		})
		json.NewEncoder(w).Encode(discord.Channel{ID: f.id(), Name: body.Name, Type: body.Type, ParentID: body.ParentID})

	// GET/POST /guilds/{g}/roles
	case len(seg) == 3 && seg[0] == "guilds" && seg[2] == "roles":
		if r.Method == http.MethodGet {
			roles := append(append([]discord.Role{}, f.guildRoles...), f.createdRoles...)
			json.NewEncoder(w).Encode(roles)
			return
		}
		if f.failRoleCreate {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"Missing Permissions"}`))
			return
		}
		var body struct {
			Name string `json:"name"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		role := discord.Role{ID: f.id(), Name: body.Name}
		f.createdRoles = append(f.createdRoles, role)
		json.NewEncoder(w).Encode(role)

	// PUT /guilds/{g}/members/{u}/roles/{r}
	case len(seg) == 6 && seg[0] == "guilds" && seg[2] == "members" && r.Method == http.MethodPut:
		f.assignedRoles[seg[5]] = append(f.assignedRoles[seg[5]], seg[3])
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"404: Not Found"}`))
	}
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}
