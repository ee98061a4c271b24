package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/pitchside/fiveside/internal/domain/roster"
	"github.com/pitchside/fiveside/internal/domain/user"
	"github.com/pitchside/fiveside/internal/infrastructure/repository/memory"
	"github.com/pitchside/fiveside/internal/platform/logging"
	"github.com/pitchside/fiveside/internal/usecase"
)

const testJobToken = "job-secret"

type stubVerifier struct {
	principal user.Principal
	err       error
}

func (v stubVerifier) VerifyAccessToken(_ context.Context, _ string) (user.Principal, error) {
	if v.err != nil {
		return user.Principal{}, v.err
	}
	return v.principal, nil
}

type enqueuedJob struct {
	path    string
	delay   time.Duration
	dedupID string
}

type stubPublisher struct {
	mu   sync.Mutex
	jobs []enqueuedJob
}

func (p *stubPublisher) Enqueue(_ context.Context, path string, _ any, delay time.Duration, deduplicationID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, enqueuedJob{path: path, delay: delay, dedupID: deduplicationID})
	return nil
}

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type serverFixture struct {
	router    http.Handler
	publisher *stubPublisher
	stats     *memory.PlayerStatsRepository
	lockAt    time.Time
	now       time.Time
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	f := &serverFixture{
		publisher: &stubPublisher{},
		stats:     memory.NewPlayerStatsRepository(),
		lockAt:    time.Date(2026, 8, 15, 17, 0, 0, 0, time.UTC),
	}
	f.now = f.lockAt.Add(-48 * time.Hour)

	rosters := memory.NewRosterRepository()
	players := memory.NewPlayerRepository(memory.SeedPlayers())
	scores := memory.NewScoringRepository()
	clock := memory.NewGameweekClock(memory.WeeklySchedule(3, f.lockAt)).
		WithNow(func() time.Time { return f.now })

	rules := roster.DefaultRules()
	logger := logging.NewNop()
	rosterService := usecase.NewRosterService(rosters, players, clock, rules, staticIDGenerator{id: "roster-1"}, nil, logger)
	playerService := usecase.NewPlayerService(players, f.stats, nil, logger)
	scoringService := usecase.NewScoringService(rosters, players, f.stats, scores, clock, rules, nil, logger, 2)

	handler := NewHandler(rosterService, playerService, scoringService, nil, f.publisher, logger)
	verifier := stubVerifier{principal: user.Principal{UserID: "user-1", Email: "user@pitchside.dev"}}
	f.router = NewRouter(handler, verifier, logger, []string{"*"}, testJobToken)

	return f
}

func (f *serverFixture) do(t *testing.T, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func authHeader() http.Header {
	return http.Header{"Authorization": []string{"Bearer user-token"}}
}

func jobHeader() http.Header {
	return http.Header{"X-Internal-Job-Token": []string{testJobToken}}
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		APIVersion string           `json:"apiVersion"`
		Data       T                `json:"data"`
		Error      *googleErrorBody `json:"error"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	if envelope.Error != nil {
		t.Fatalf("unexpected error response: %+v", envelope.Error)
	}
	return envelope.Data
}

const createRosterBody = `{
	"name": "Test FC",
	"starter_ids": ["gk-01", "hm-01", "hm-02", "lw-01", "rw-01"],
	"bench_ids": ["gk-02", "rw-02"],
	"captain_id": "lw-01",
	"vice_captain_id": "hm-01"
}`

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := decodeData[map[string]string](t, rec)
	if data["status"] != "ok" {
		t.Fatalf("unexpected health payload %v", data)
	}
}

func TestRouter_ListPlayersIsPublic(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	rec := f.do(t, http.MethodGet, "/v1/players?position=gk", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := decodeData[[]playerDTO](t, rec)
	if len(data) != 4 {
		t.Fatalf("expected 4 goalkeepers, got %d", len(data))
	}
}

func TestRouter_CreateRoster(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/rosters", createRosterBody, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create = %d, want 401", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/v1/rosters", createRosterBody, authHeader())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	data := decodeData[rosterDTO](t, rec)
	if data.ID != "roster-1" || data.SquadValue != 737 || data.CaptainID != "lw-01" {
		t.Fatalf("unexpected roster payload: %+v", data)
	}

	rec = f.do(t, http.MethodGet, "/v1/rosters/me", "", authHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("get my roster = %d, want 200", rec.Code)
	}

	// A second squad for the same account is rejected.
	rec = f.do(t, http.MethodPost, "/v1/rosters", createRosterBody, authHeader())
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create = %d, want 409", rec.Code)
	}
}

func TestRouter_CreateRosterValidation(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)

	body := `{
		"name": "Test FC",
		"starter_ids": ["gk-01", "hm-01", "hm-02", "lw-01"],
		"bench_ids": ["gk-02", "rw-02"],
		"captain_id": "lw-01",
		"vice_captain_id": "hm-01"
	}`
	rec := f.do(t, http.MethodPost, "/v1/rosters", body, authHeader())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("four starters = %d, want 400", rec.Code)
	}
}

func TestRouter_TransferAndChips(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	if rec := f.do(t, http.MethodPost, "/v1/rosters", createRosterBody, authHeader()); rec.Code != http.StatusCreated {
		t.Fatalf("create = %d", rec.Code)
	}

	rec := f.do(t, http.MethodPost, "/v1/rosters/me/transfers", `{"outgoing_id": "rw-01", "incoming_id": "rw-03"}`, authHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("transfer = %d (body %s)", rec.Code, rec.Body.String())
	}
	data := decodeData[rosterDTO](t, rec)
	if data.Transfers.Made != 1 || data.Transfers.Cost != 0 {
		t.Fatalf("unexpected transfer state: %+v", data.Transfers)
	}

	rec = f.do(t, http.MethodPost, "/v1/rosters/me/chips", `{"chip": "triple_captain"}`, authHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("use chip = %d (body %s)", rec.Code, rec.Body.String())
	}
	data = decodeData[rosterDTO](t, rec)
	if !data.Chips.TripleCaptainUsed || data.Chips.Active != "triple_captain" {
		t.Fatalf("unexpected chip state: %+v", data.Chips)
	}

	rec = f.do(t, http.MethodPost, "/v1/rosters/me/chips", `{"chip": "bench_boost"}`, authHeader())
	if rec.Code != http.StatusConflict {
		t.Fatalf("second chip = %d, want 409", rec.Code)
	}

	rec = f.do(t, http.MethodDelete, "/v1/rosters/me/chips", "", authHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel chip = %d", rec.Code)
	}
	data = decodeData[rosterDTO](t, rec)
	if data.Chips.TripleCaptainUsed || data.Chips.Active != "" {
		t.Fatalf("chip not released: %+v", data.Chips)
	}

	rec = f.do(t, http.MethodPut, "/v1/rosters/me/captaincy", `{"captain_id": "rw-03", "vice_captain_id": "gk-01"}`, authHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("captaincy = %d (body %s)", rec.Code, rec.Body.String())
	}
	data = decodeData[rosterDTO](t, rec)
	if data.CaptainID != "rw-03" {
		t.Fatalf("captain not updated: %+v", data)
	}
}

func TestRouter_UnknownChipRejected(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	if rec := f.do(t, http.MethodPost, "/v1/rosters", createRosterBody, authHeader()); rec.Code != http.StatusCreated {
		t.Fatalf("create = %d", rec.Code)
	}

	rec := f.do(t, http.MethodPost, "/v1/rosters/me/chips", `{"chip": "golden_boot"}`, authHeader())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown chip = %d, want 400", rec.Code)
	}
}

func TestRouter_InternalJobsRequireToken(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/internal/jobs/score-gameweek", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token = %d, want 401", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/v1/internal/jobs/score-gameweek", "", http.Header{"X-Internal-Job-Token": []string{"wrong"}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token = %d, want 401", rec.Code)
	}
}

func TestRouter_ScoreJobReenqueuesWhilePending(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	if rec := f.do(t, http.MethodPost, "/v1/rosters", createRosterBody, authHeader()); rec.Code != http.StatusCreated {
		t.Fatalf("create = %d", rec.Code)
	}

	// Round locked, feed figures still provisional.
	f.now = f.lockAt.Add(time.Minute)

	rec := f.do(t, http.MethodPost, "/v1/internal/jobs/score-gameweek", "", jobHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("score job = %d (body %s)", rec.Code, rec.Body.String())
	}
	data := decodeData[batchResultDTO](t, rec)
	if data.Pending != 1 || data.Complete {
		t.Fatalf("expected pending batch, got %+v", data)
	}

	f.publisher.mu.Lock()
	defer f.publisher.mu.Unlock()
	if len(f.publisher.jobs) != 1 {
		t.Fatalf("expected one re-enqueued job, got %d", len(f.publisher.jobs))
	}
	job := f.publisher.jobs[0]
	if job.path != "/v1/internal/jobs/score-gameweek" || job.dedupID != "score-gameweek-1-retry" {
		t.Fatalf("unexpected re-enqueue: %+v", job)
	}
}

func TestRouter_ScoreJobWhileOpen(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/internal/jobs/score-gameweek", "", jobHeader())
	if rec.Code != http.StatusConflict {
		t.Fatalf("score while open = %d, want 409", rec.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)

	rec := f.do(t, http.MethodOptions, "/v1/players", "", http.Header{"Origin": []string{"https://app.pitchside.dev"}})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q", got)
	}
}
