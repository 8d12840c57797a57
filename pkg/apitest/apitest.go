// Package apitest provides an in-process fake of the platform API for
// tests.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/config"
)

// Call is a request received by the fake server.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// Failure makes an endpoint fail.
type Failure struct {
	// Status is the HTTP status to respond with. Defaults to 200.
	Status int

	// Error is returned as an {"error": ...} payload when set.
	Error string

	// Body is written verbatim when Error is empty.
	Body string
}

type hold struct {
	arrived chan struct{}
	release chan struct{}
}

// Server is a fake platform API backed by in-memory state.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	me         string
	users      map[string]api.User
	teams      map[int64]*api.Team
	bots       map[int64]api.Bot
	games      []api.RawGame
	pfps       map[int64][]byte
	message    string
	version    string
	calls      []Call
	failures   map[string]Failure
	holds      map[string][]*hold
	nextTeamID int64
	nextBotID  int64
}

// New starts a fake server that is closed when the test ends.
func New(tb testing.TB) *Server {
	tb.Helper()
	s := &Server{
		users:      map[string]api.User{},
		teams:      map[int64]*api.Team{},
		bots:       map[int64]api.Bot{},
		pfps:       map[int64][]byte{},
		failures:   map[string]Failure{},
		holds:      map[string][]*hold{},
		nextTeamID: 1,
		nextBotID:  1,
	}

	r := mux.NewRouter()
	a := r.PathPrefix("/api").Subrouter()
	a.Use(s.record, s.gate)
	a.HandleFunc("/my-account", s.myAccount).Methods(http.MethodGet)
	a.HandleFunc("/my-team", s.myTeam).Methods(http.MethodGet)
	a.HandleFunc("/teams", s.listTeams).Methods(http.MethodGet)
	a.HandleFunc("/bots", s.listBots).Methods(http.MethodGet)
	a.HandleFunc("/games", s.listGames).Methods(http.MethodGet)
	a.HandleFunc("/upload-bot", s.uploadBot).Methods(http.MethodPost)
	a.HandleFunc("/upload-pfp", s.uploadPfp).Methods(http.MethodPut)
	a.HandleFunc("/pfp", s.pfp).Methods(http.MethodGet)
	a.HandleFunc("/rename-team", s.renameTeam).Methods(http.MethodGet)
	a.HandleFunc("/kick-member", s.kickMember).Methods(http.MethodGet)
	a.HandleFunc("/leave-team", s.leaveTeam).Methods(http.MethodGet)
	a.HandleFunc("/delete-team", s.deleteTeam).Methods(http.MethodGet)
	a.HandleFunc("/create-invite", s.createInvite).Methods(http.MethodGet)
	a.HandleFunc("/cancel-invite", s.cancelInvite).Methods(http.MethodGet)
	a.HandleFunc("/create-team", s.createTeam).Methods(http.MethodGet)
	a.HandleFunc("/join-team", s.joinTeam).Methods(http.MethodGet)
	a.HandleFunc("/set-active-bot", s.setActiveBot).Methods(http.MethodGet)
	a.HandleFunc("/delete-bot", s.deleteBot).Methods(http.MethodGet)
	a.HandleFunc("/server-message", s.serverMessage).Methods(http.MethodGet)
	a.HandleFunc("/signout", s.signOut).Methods(http.MethodGet)

	s.Server = httptest.NewServer(handlers.RecoveryHandler()(r))
	tb.Cleanup(s.Close)
	return s
}

// Config returns a client configuration pointing at the fake server.
func (s *Server) Config() *config.Config {
	cfg := config.DefaultConfig()
	cfg.API.URL = s.URL + "/api"
	cfg.API.Session = "test-session"
	return cfg
}

// Client returns an API client for the fake server.
func (s *Server) Client(tb testing.TB, opts ...api.Option) *api.Client {
	tb.Helper()
	c, err := api.New(s.Config(), opts...)
	if err != nil {
		tb.Fatalf("api.New: %v", err)
	}
	return c
}

// Login makes every following request act as email.
// An empty email logs out.
func (s *Server) Login(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.me = email
}

// AddUser registers a user.
func (s *Server) AddUser(email, displayName string) api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := api.User{Email: email, DisplayName: displayName}
	s.users[email] = u
	return u
}

// AddTeam creates a team owned by owner with the given members. The owner
// is always a member.
func (s *Server) AddTeam(name, owner string, members ...string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addTeamLocked(name, owner, members...)
}

func (s *Server) addTeamLocked(name, owner string, members ...string) int64 {
	id := s.nextTeamID
	s.nextTeamID++
	t := &api.Team{ID: id, Name: name, Owner: owner}
	for _, email := range append([]string{owner}, members...) {
		t.Members = append(t.Members, api.User{Email: email})
	}
	s.teams[id] = t
	return id
}

// AddInvite adds an invite code to a team.
func (s *Server) AddInvite(teamID int64, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.teams[teamID]; ok {
		t.Invites = append(t.Invites, code)
	}
}

// AddBot uploads a bot for a team.
func (s *Server) AddBot(teamID int64, name, uploadedBy string, status api.BuildStatus) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addBotLocked(teamID, name, uploadedBy, status)
}

func (s *Server) addBotLocked(teamID int64, name, uploadedBy string, status api.BuildStatus) int64 {
	id := s.nextBotID
	s.nextBotID++
	s.bots[id] = api.Bot{
		ID:           id,
		Name:         name,
		TeamID:       teamID,
		UploadedBy:   uploadedBy,
		DateUploaded: 1700000000 + id,
		BuildStatus:  status,
	}
	return id
}

// AddGame records a game.
func (s *Server) AddGame(g api.RawGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = append(s.games, g)
}

// SetMessage sets the server announcement.
func (s *Server) SetMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = msg
}

// SetUploadVersion makes uploads report a version token.
func (s *Server) SetUploadVersion(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = v
}

// Team returns a copy of a team's current server state.
func (s *Server) Team(id int64) (api.Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return api.Team{}, false
	}
	return *t, true
}

// Bot returns a copy of a bot's current server state.
func (s *Server) Bot(id int64) (api.Bot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bots[id]
	return b, ok
}

// Pfp returns the uploaded picture of a team.
func (s *Server) Pfp(teamID int64) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pfps[teamID]
}

// Fail makes every request to endpoint fail until Recover is called.
func (s *Server) Fail(endpoint string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[endpoint] = f
}

// Recover undoes Fail.
func (s *Server) Recover(endpoint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, endpoint)
}

// Hold blocks the next request to endpoint until release is called. The
// arrived channel is closed once that request reached the server.
func (s *Server) Hold(endpoint string) (arrived <-chan struct{}, release func()) {
	h := &hold{arrived: make(chan struct{}), release: make(chan struct{})}
	s.mu.Lock()
	s.holds[endpoint] = append(s.holds[endpoint], h)
	s.mu.Unlock()
	var once sync.Once
	return h.arrived, func() { once.Do(func() { close(h.release) }) }
}

// Calls returns every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the number of requests received for endpoint.
func (s *Server) CallsTo(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Path == endpoint {
			n++
		}
	}
	return n
}

// ResetCalls forgets recorded requests.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func endpointOf(r *http.Request) string {
	return strings.TrimPrefix(r.URL.Path, "/api")
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close() // nolint: errcheck
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method: r.Method,
			Path:   endpointOf(r),
			Query:  r.URL.Query(),
			Body:   body,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ep := endpointOf(r)
		s.mu.Lock()
		var h *hold
		if q := s.holds[ep]; len(q) > 0 {
			h, s.holds[ep] = q[0], q[1:]
		}
		s.mu.Unlock()

		if h != nil {
			close(h.arrived)
			select {
			case <-h.release:
			case <-r.Context().Done():
				return
			}
		}

		s.mu.Lock()
		f, failing := s.failures[ep]
		s.mu.Unlock()
		if failing {
			status := f.Status
			if status == 0 {
				status = http.StatusOK
			}
			if f.Error != "" {
				writeJSON(w, status, map[string]string{"error": f.Error})
				return
			}
			w.WriteHeader(status)
			io.WriteString(w, f.Body) // nolint: errcheck
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) // nolint: errcheck
}

func writeError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"error": msg})
}

// teamOfLocked returns the team the logged in user belongs to.
func (s *Server) teamOfLocked(email string) *api.Team {
	if email == "" {
		return nil
	}
	for _, t := range s.teams {
		if t.HasMember(email) {
			return t
		}
	}
	return nil
}

// viewLocked returns a copy of a team, with members filled in on request.
func (s *Server) viewLocked(t *api.Team, fill bool) api.Team {
	v := *t
	v.Members = make([]api.User, len(t.Members))
	for i, m := range t.Members {
		u, ok := s.users[m.Email]
		if fill && ok {
			v.Members[i] = u
		} else {
			v.Members[i] = api.User{Email: m.Email}
		}
	}
	v.Invites = append([]string(nil), t.Invites...)
	return v
}

func (s *Server) myAccount(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[s.me]
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) myTeam(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.teamOfLocked(s.me)
	if t == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, s.viewLocked(t, true))
}

func parseIDs(s string) []int64 {
	var ids []int64
	for _, p := range strings.Split(s, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fill, _ := strconv.ParseBool(r.URL.Query().Get("fill_members"))
	teams := []api.Team{}
	for _, id := range parseIDs(r.URL.Query().Get("ids")) {
		if t, ok := s.teams[id]; ok {
			teams = append(teams, s.viewLocked(t, fill))
		}
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) listBots(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bots := []api.Bot{}
	q := r.URL.Query()
	if team := q.Get("team"); team != "" {
		id, _ := strconv.ParseInt(team, 10, 64)
		for _, b := range s.bots {
			if b.TeamID == id {
				bots = append(bots, b)
			}
		}
		sort.Slice(bots, func(i, j int) bool { return bots[i].ID > bots[j].ID })
	} else {
		for _, id := range parseIDs(q.Get("ids")) {
			if b, ok := s.bots[id]; ok {
				bots = append(bots, b)
			}
		}
	}
	writeJSON(w, http.StatusOK, bots)
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	count, _ := strconv.Atoi(q.Get("count"))
	if count <= 0 {
		count = api.DefaultGamesPageSize
	}
	games := []api.RawGame{}
	for i := len(s.games) - 1; i >= 0; i-- {
		g := s.games[i]
		if team := q.Get("team"); team != "" {
			id, _ := strconv.ParseInt(team, 10, 64)
			if s.bots[g.BotA].TeamID != id && s.bots[g.BotB].TeamID != id {
				continue
			}
		}
		games = append(games, g)
	}
	start := page * count
	if start > len(games) {
		start = len(games)
	}
	end := start + count
	if end > len(games) {
		end = len(games)
	}
	writeJSON(w, http.StatusOK, games[start:end])
}

func (s *Server) uploadBot(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.teamOfLocked(s.me)
	if t == nil {
		writeError(w, "You must be on a team to upload a bot")
		return
	}
	if len(body) == 0 {
		writeError(w, "Empty upload")
		return
	}
	id := s.addBotLocked(t.ID, "bot-"+strconv.Itoa(len(s.bots)+1), s.me, api.BuildQueued)
	res := map[string]any{"id": id}
	if s.version != "" {
		res["version"] = s.version
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) uploadPfp(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.teamOfLocked(s.me)
	if t == nil {
		writeError(w, "You must be on a team to upload a picture")
		return
	}
	s.pfps[t.ID] = body
	res := map[string]any{}
	if s.version != "" {
		res["version"] = s.version
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) pfp(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	w.Header().Set("Content-Type", "image/png")
	w.Write(s.pfps[id]) // nolint: errcheck
}

func (s *Server) renameTeam(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.teamOfLocked(s.me)
	if t == nil {
		writeError(w, "You are not on a team")
		return
	}
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	switch {
	case to == "":
		writeError(w, "Team name cannot be empty")
		return
	case len(to) > 32:
		writeError(w, "Team name is too long")
		return
	}
	for _, o := range s.teams {
		if o.ID != t.ID && strings.EqualFold(o.Name, to) {
			writeError(w, "Team name already taken")
			return
		}
	}
	t.Name = to
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) kickMember(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.teamOfLocked(s.me)
	if t == nil || !t.IsOwner(s.me) {
		writeError(w, "Only the team owner can kick members")
		return
	}
	email := r.URL.Query().Get("email")
	if email == s.me {
		writeError(w, "The owner cannot be kicked")
		return
	}
	t.Members = removeMember(t.Members, email)
	writeJSON(w, http.StatusOK, nil)
}

func removeMember(members []api.User, email string) []api.User {
	out := members[:0]
	for _, m := range members {
		if m.Email != email {
			out = append(out, m)
		}
	}
	return out
}

func (s *Server) leaveTeam(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.teamOfLocked(s.me)
	if t == nil {
		writeError(w, "You are not on a team")
		return
	}
	if t.IsOwner(s.me) {
		writeError(w, "The owner cannot leave the team")
		return
	}
	t.Members = removeMember(t.Members, s.me)
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) deleteTeam(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.teamOfLocked(s.me)
	if t == nil || !t.IsOwner(s.me) {
		writeError(w, "Only the team owner can delete the team")
		return
	}
	delete(s.teams, t.ID)
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) createInvite(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.teamOfLocked(s.me)
	if t == nil {
		writeError(w, "You are not on a team")
		return
	}
	if t.IsFull() {
		writeError(w, "Team is full")
		return
	}
	t.Invites = append(t.Invites, uuid.NewString())
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) cancelInvite(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.teamOfLocked(s.me)
	if t == nil {
		writeError(w, "You are not on a team")
		return
	}
	code := r.URL.Query().Get("invite_code")
	invites := t.Invites[:0]
	for _, c := range t.Invites {
		if c != code {
			invites = append(invites, c)
		}
	}
	t.Invites = invites
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) createTeam(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.me == "" {
		writeError(w, "You must be logged in")
		return
	}
	if s.teamOfLocked(s.me) != nil {
		writeError(w, "You are already on a team")
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("team_name"))
	if name == "" {
		writeError(w, "Team name cannot be empty")
		return
	}
	s.addTeamLocked(name, s.me)
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) joinTeam(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.me == "" {
		writeError(w, "You must be logged in")
		return
	}
	if s.teamOfLocked(s.me) != nil {
		writeError(w, "You are already on a team")
		return
	}
	code := r.URL.Query().Get("invite_code")
	for _, t := range s.teams {
		for i, c := range t.Invites {
			if c == code {
				t.Invites = append(t.Invites[:i], t.Invites[i+1:]...)
				t.Members = append(t.Members, api.User{Email: s.me})
				writeJSON(w, http.StatusOK, nil)
				return
			}
		}
	}
	writeError(w, "Invalid invite code")
}

func (s *Server) setActiveBot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.teamOfLocked(s.me)
	id, _ := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	b, ok := s.bots[id]
	if t == nil || !ok || b.TeamID != t.ID {
		writeError(w, "Bot not found")
		return
	}
	if b.BuildStatus != api.TestGameSucceeded {
		writeError(w, "Bot is not ready")
		return
	}
	t.ActiveBot = &id
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) deleteBot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.teamOfLocked(s.me)
	id, _ := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	b, ok := s.bots[id]
	if t == nil || !ok || b.TeamID != t.ID {
		writeError(w, "Bot not found")
		return
	}
	delete(s.bots, id)
	if t.ActiveBot != nil && *t.ActiveBot == id {
		t.ActiveBot = nil
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) serverMessage(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.message == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, s.message)
}

func (s *Server) signOut(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.me = ""
	writeJSON(w, http.StatusOK, nil)
}
