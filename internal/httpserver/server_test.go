package httpserver

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snoowords/go-server/assets"
	"github.com/snoowords/go-server/internal/auth"
	"github.com/snoowords/go-server/internal/daily"
	"github.com/snoowords/go-server/internal/db"
	"github.com/snoowords/go-server/internal/game"
	"github.com/snoowords/go-server/internal/letters"
	"github.com/snoowords/go-server/internal/lexicon"
	"github.com/snoowords/go-server/internal/store"
	"github.com/snoowords/go-server/internal/theme"
)

type fixture struct {
	srv    *Server
	engine *game.Engine
	store  *store.Memory
	db     *sql.DB
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(sqlDB, assets.Migrations()))

	f := &fixture{db: sqlDB, now: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }
	lex := lexicon.Default()
	f.engine = game.NewEngine(lex, letters.NewSeeded(7), game.WithClock(clock))
	f.store = store.NewMemoryStore()
	f.srv = New(Deps{
		Engine:  f.engine,
		Lexicon: lex,
		Store:   f.store,
		DB:      sqlDB,
		Daily:   daily.NewStore(sqlDB, "test-salt"),
		Auth: &auth.Service{
			Users:      auth.NewUsers(sqlDB),
			Tokens:     auth.NewTokens("test-secret", time.Hour),
			CookieName: "tok",
		},
		Admins: []string{"Root"},
		Now:    clock,
	})
	return f
}

func (f *fixture) call(t *testing.T, method, path string, body any, mods ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, m := range mods {
		m(req)
	}
	rec := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(rec, req)
	return rec
}

func withAnon(id string) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: auth.AnonCookieName, Value: id}) }
}

func withBearer(tok string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestDiagnostics(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.call(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = f.call(t, http.MethodGet, "/debug/lexicon", nil)
	assert.Greater(t, decodeAs[map[string]int](t, rec)["entries"], 1000)

	rec = f.call(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found"}`, rec.Body.String())

	rec = f.call(t, http.MethodOptions, "/game/new", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWordTools(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.call(t, http.MethodPost, "/letters", map[string]int{"count": 9})
	require.Equal(t, http.StatusOK, rec.Code)
	ls := decodeAs[map[string][]string](t, rec)["letters"]
	assert.Len(t, ls, 9)
	assert.GreaterOrEqual(t, letters.CountVowels(ls), letters.DefaultMinVowels)

	rec = f.call(t, http.MethodPost, "/letters", map[string]int{"count": 99})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	validate := []struct {
		name   string
		body   map[string]any
		valid  bool
		reason string
	}{
		{"known word", map[string]any{"word": " Planet "}, true, ""},
		{"too short", map[string]any{"word": "pl"}, false, "too_short"},
		{"unknown", map[string]any{"word": "qzxqzx"}, false, "not_a_word"},
		{"letters missing", map[string]any{"word": "planet", "letters": []string{"P", "L", "A", "N"}}, false, "letters_unavailable"},
		{"letters present", map[string]any{"word": "planet", "letters": []string{"T", "E", "N", "A", "L", "P"}}, true, ""},
	}
	for _, tt := range validate {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.call(t, http.MethodPost, "/words/validate", tt.body)
			require.Equal(t, http.StatusOK, rec.Code)
			res := decodeAs[validateRes](t, rec)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}

	rec = f.call(t, http.MethodPost, "/words/score", map[string]string{"word": "quartz"})
	assert.Equal(t, scoreRes{Word: "quartz", Policy: "additive", Points: 13}, decodeAs[scoreRes](t, rec))
	rec = f.call(t, http.MethodPost, "/words/score", map[string]string{"word": "QUARTZ", "policy": "multiplicative"})
	assert.Equal(t, scoreRes{Word: "quartz", Policy: "multiplicative", Points: 7}, decodeAs[scoreRes](t, rec))

	rec = f.call(t, http.MethodGet, "/themes", nil)
	assert.Equal(t, theme.Names(), decodeAs[map[string][]string](t, rec)["themes"])

	rec = f.call(t, http.MethodPost, "/themes/check", map[string]string{"word": "Quartz", "theme": "science"})
	assert.JSONEq(t, `{"themed":true}`, rec.Body.String())

	rec = f.call(t, http.MethodPost, "/words/validate", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoundFlow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rd := f.engine.NewRound(game.Options{
		Letters:  []string{"P", "L", "A", "N", "E", "T", "Q", "U", "R", "Z", "O", "I"},
		Duration: -1,
	})
	require.NoError(t, f.store.Save(context.Background(), rd))
	id := rd.ID()

	rec := f.call(t, http.MethodPost, "/game/submit", submitReq{GameID: id, Word: "planet"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeAs[submitRes](t, rec)
	assert.Equal(t, game.ScoredWord{Word: "planet", Points: 9}, res.Accepted)
	assert.Equal(t, 9, res.Score)

	errCases := []struct {
		word   string
		status int
		body   string
	}{
		{"planet", http.StatusConflict, `{"error":"already_found"}`},
		{"pl", http.StatusBadRequest, `{"error":"too_short"}`},
		{"qzxqzx", http.StatusBadRequest, `{"error":"not_a_word"}`},
		{"kitchen", http.StatusBadRequest, `{"error":"letters_unavailable"}`},
	}
	for _, tt := range errCases {
		rec := f.call(t, http.MethodPost, "/game/submit", submitReq{GameID: id, Word: tt.word})
		assert.Equal(t, tt.status, rec.Code, tt.word)
		assert.JSONEq(t, tt.body, rec.Body.String(), tt.word)
	}

	rec = f.call(t, http.MethodPost, "/game/submit", submitReq{GameID: id, Word: "quartz"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 22, decodeAs[submitRes](t, rec).Score)

	rec = f.call(t, http.MethodGet, "/game/"+id, nil)
	snap := decodeAs[game.Snapshot](t, rec)
	assert.Equal(t, game.StatePlaying, snap.State)
	assert.Len(t, snap.Words, 2)
	assert.Nil(t, snap.EndsAt)

	rec = f.call(t, http.MethodPost, "/game/finish", roundReq{GameID: id})
	assert.Equal(t, game.StateFinished, decodeAs[game.Snapshot](t, rec).State)

	rec = f.call(t, http.MethodPost, "/game/submit", submitReq{GameID: id, Word: "plan"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"round_over"}`, rec.Body.String())

	rec = f.call(t, http.MethodPost, "/game/reset", roundReq{GameID: id})
	snap = decodeAs[game.Snapshot](t, rec)
	assert.Equal(t, game.StatePlaying, snap.State)
	assert.Zero(t, snap.Score)
	assert.Empty(t, snap.Words)
	assert.Len(t, snap.Letters, 12)

	rec = f.call(t, http.MethodPost, "/game/submit", submitReq{GameID: "missing", Word: "plan"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewRoundPersistsOwner(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.call(t, http.MethodPost, "/game/new", newRoundReq{Mode: "battle", Theme: "Science", Seconds: -1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap := decodeAs[game.Snapshot](t, rec)
	assert.Equal(t, game.ModeBattle, snap.Mode)
	assert.Equal(t, "multiplicative", snap.Policy)
	assert.Equal(t, "science", snap.Theme)
	assert.Len(t, snap.Letters, letters.DefaultCount)
	assert.Nil(t, snap.EndsAt)

	var anon string
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.AnonCookieName {
			anon = c.Value
		}
	}
	require.NotEmpty(t, anon)

	var owner string
	require.NoError(t, f.db.QueryRow(`SELECT anonymous_id FROM rounds WHERE id=?`, snap.ID).Scan(&owner))
	assert.Equal(t, anon, owner)

	rec = f.call(t, http.MethodPost, "/game/new", newRoundReq{Count: 8, Seconds: 30})
	snap = decodeAs[game.Snapshot](t, rec)
	assert.Len(t, snap.Letters, 8)
	require.NotNil(t, snap.EndsAt)
	assert.Equal(t, 30*time.Second, snap.EndsAt.Sub(snap.StartedAt))

	rec = f.call(t, http.MethodPost, "/game/new", newRoundReq{Theme: "knitting"})
	assert.JSONEq(t, `{"error":"unknown_theme"}`, rec.Body.String())
}

func TestRoundOwnership(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	owner, other := withAnon("anon-owner"), withAnon("anon-other")

	rec := f.call(t, http.MethodPost, "/game/new", newRoundReq{Seconds: -1}, owner)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id := decodeAs[game.Snapshot](t, rec).ID

	for _, tt := range []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"submit", http.MethodPost, "/game/submit", submitReq{GameID: id, Word: "planet"}},
		{"reset", http.MethodPost, "/game/reset", roundReq{GameID: id}},
		{"finish", http.MethodPost, "/game/finish", roundReq{GameID: id}},
		{"get", http.MethodGet, "/game/" + id, nil},
	} {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.call(t, tt.method, tt.path, tt.body, other)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.JSONEq(t, `{"error":"not_found"}`, rec.Body.String())

			rec = f.call(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code, "no cookie")
		})
	}

	rec = f.call(t, http.MethodGet, "/game/"+id, nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeAs[game.Snapshot](t, rec)
	assert.Equal(t, game.StatePlaying, snap.State)
	assert.Empty(t, snap.Words)
}

func TestDailyFlow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	anon := withAnon("anon-daily")

	rec := f.call(t, http.MethodGet, "/daily", nil, anon)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	today := decodeAs[todayRes](t, rec)
	assert.Contains(t, theme.Names(), today.Name)
	assert.False(t, today.Played)

	rec = f.call(t, http.MethodPost, "/daily/new", nil, anon)
	first := decodeAs[dailyNewRes](t, rec)
	require.NotEmpty(t, first.GameID)
	require.NotNil(t, first.Round)
	assert.Equal(t, today.Name, first.Round.Theme)
	assert.Equal(t, today.BonusWords, first.Round.BonusWords)

	rec = f.call(t, http.MethodPost, "/daily/new", nil, anon)
	assert.Equal(t, first.GameID, decodeAs[dailyNewRes](t, rec).GameID, "resumes the same round")

	rec = f.call(t, http.MethodPost, "/game/reset", roundReq{GameID: first.GameID}, anon)
	assert.JSONEq(t, `{"error":"daily_no_reset"}`, rec.Body.String())

	rec = f.call(t, http.MethodPost, "/daily/finish", dailyFinishReq{GameID: "other"}, anon)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.call(t, http.MethodPost, "/daily/finish", dailyFinishReq{GameID: first.GameID}, anon)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decodeAs[dailyFinishRes](t, rec).Recorded)

	rec = f.call(t, http.MethodPost, "/daily/new", nil, anon)
	assert.True(t, decodeAs[dailyNewRes](t, rec).Played)

	rec = f.call(t, http.MethodGet, "/daily/leaderboard", nil)
	lb := decodeAs[lbRes](t, rec)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, "anon-daily", lb.Top[0].PlayerID)
	assert.Equal(t, "guest", lb.Top[0].Username)

	rec = f.call(t, http.MethodGet, "/daily/leaderboard?date=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	anon := withAnon("anon-auth")

	rec := f.call(t, http.MethodPost, "/game/new", newRoundReq{}, anon)
	require.Equal(t, http.StatusOK, rec.Code)
	roundID := decodeAs[game.Snapshot](t, rec).ID

	rec = f.call(t, http.MethodPost, "/auth/signup", credentials{Username: "carol", Password: "correct-horse"}, anon)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	signed := decodeAs[authRes](t, rec)
	require.NotEmpty(t, signed.Token)

	rec = f.call(t, http.MethodPost, "/auth/signup", credentials{Username: "CAROL", Password: "correct-horse"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.call(t, http.MethodPost, "/auth/login", credentials{Username: "carol", Password: "wrong-horse"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.call(t, http.MethodPost, "/auth/login", credentials{Username: "carol", Password: "correct-horse"})
	require.Equal(t, http.StatusOK, rec.Code)
	tok := decodeAs[authRes](t, rec).Token

	rec = f.call(t, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.call(t, http.MethodPost, "/game/finish", roundReq{GameID: roundID}, withBearer(tok), anon)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.call(t, http.MethodGet, "/auth/me", nil, withBearer(tok))
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeAs[auth.User](t, rec)
	assert.Equal(t, "carol", me.Username)
	assert.Equal(t, 1, me.RoundsPlayed, "claimed guest round counts once finished")

	rec = f.call(t, http.MethodGet, "/rounds/mine", nil, withBearer(tok))
	rows := decodeAs[[]roundRow](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, roundID, rows[0].ID)
	assert.NotEmpty(t, rows[0].FinishedAt)

	rec = f.call(t, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "tok", cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestDailyFinishAfterMidnight(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	anon := withAnon("anon-late")
	f.now = time.Date(2026, 10, 19, 23, 59, 30, 0, time.UTC)

	rec := f.call(t, http.MethodPost, "/daily/new", nil, anon)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	started := decodeAs[dailyNewRes](t, rec)
	require.Equal(t, "2026-10-19", started.Date)

	f.now = time.Date(2026, 10, 20, 0, 0, 30, 0, time.UTC)
	rec = f.call(t, http.MethodPost, "/daily/finish", dailyFinishReq{GameID: started.GameID}, anon)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeAs[dailyFinishRes](t, rec)
	assert.Equal(t, "2026-10-19", res.Date)
	assert.True(t, res.Recorded)

	rec = f.call(t, http.MethodGet, "/daily/leaderboard?date=2026-10-19", nil)
	lb := decodeAs[lbRes](t, rec)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, "anon-late", lb.Top[0].PlayerID)
	assert.Equal(t, 60000, lb.Top[0].ElapsedMs)

	rec = f.call(t, http.MethodGet, "/daily/leaderboard", nil)
	assert.Empty(t, decodeAs[lbRes](t, rec).Top, "the new day starts empty")

	rec = f.call(t, http.MethodPost, "/daily/new", nil, anon)
	next := decodeAs[dailyNewRes](t, rec)
	assert.False(t, next.Played)
	assert.Equal(t, "2026-10-20", next.Date)
	assert.NotEqual(t, started.GameID, next.GameID)
}

func TestDailyFinishNeedsOwner(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.call(t, http.MethodPost, "/daily/new", nil, withAnon("anon-a"))
	id := decodeAs[dailyNewRes](t, rec).GameID

	rec = f.call(t, http.MethodPost, "/daily/finish", dailyFinishReq{GameID: id}, withAnon("anon-b"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"no_session"}`, rec.Body.String())
	assert.True(t, f.srv.dd.isDaily(id))
}

func TestSweepDaily(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	rec := f.call(t, http.MethodPost, "/daily/new", nil, withAnon("anon-gone"))
	gone := decodeAs[dailyNewRes](t, rec).GameID
	rec = f.call(t, http.MethodPost, "/daily/new", nil, withAnon("anon-live"))
	live := decodeAs[dailyNewRes](t, rec).GameID

	require.NoError(t, f.store.Delete(ctx, gone))
	assert.Equal(t, 1, f.srv.SweepDaily(ctx))
	assert.False(t, f.srv.dd.isDaily(gone))
	assert.True(t, f.srv.dd.isDaily(live))

	f.now = f.now.AddDate(0, 0, 2)
	assert.Equal(t, 1, f.srv.SweepDaily(ctx), "sessions older than yesterday go")
	assert.False(t, f.srv.dd.isDaily(live))
	assert.False(t, f.store.Has(ctx, live))
	assert.Zero(t, f.srv.SweepDaily(ctx))

	f.srv.dd.mu.Lock()
	defer f.srv.dd.mu.Unlock()
	assert.Empty(t, f.srv.dd.sessions)
	assert.Empty(t, f.srv.dd.rounds)
}

func TestDailyNewRestartsSweptRound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	anon := withAnon("anon-idle")

	rec := f.call(t, http.MethodPost, "/daily/new", nil, anon)
	first := decodeAs[dailyNewRes](t, rec).GameID
	require.NoError(t, f.store.Delete(context.Background(), first))

	rec = f.call(t, http.MethodPost, "/daily/new", nil, anon)
	second := decodeAs[dailyNewRes](t, rec).GameID
	assert.NotEqual(t, first, second)
	assert.False(t, f.srv.dd.isDaily(first))
	assert.True(t, f.srv.dd.isDaily(second))
}

func TestDailySetTheme(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	signup := func(name string) string {
		rec := f.call(t, http.MethodPost, "/auth/signup", credentials{Username: name, Password: "correct-horse"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decodeAs[authRes](t, rec).Token
	}
	admin, player := withBearer(signup("root")), withBearer(signup("dana"))

	body := setThemeReq{Theme: "Kitchen", BonusWords: []string{" Whisk ", "LADLE", ""}}
	rec := f.call(t, http.MethodPost, "/daily/theme", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = f.call(t, http.MethodPost, "/daily/theme", body, player)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden"}`, rec.Body.String())

	rec = f.call(t, http.MethodPost, "/daily/theme", body, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, daily.Theme{Date: "2026-10-19", Name: "kitchen", BonusWords: []string{"whisk", "ladle"}}, decodeAs[daily.Theme](t, rec))

	rec = f.call(t, http.MethodGet, "/daily", nil, withAnon("anon-theme"))
	today := decodeAs[todayRes](t, rec)
	assert.Equal(t, "kitchen", today.Name)
	assert.Equal(t, []string{"whisk", "ladle"}, today.BonusWords)

	name := theme.Names()[0]
	rec = f.call(t, http.MethodPost, "/daily/theme", setThemeReq{Date: "2026-10-21", Theme: name}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, theme.Words(name), decodeAs[daily.Theme](t, rec).BonusWords)

	bad := []struct {
		name string
		body setThemeReq
		code string
	}{
		{"bad date", setThemeReq{Date: "tomorrow", Theme: name}, `{"error":"bad_date"}`},
		{"custom theme without words", setThemeReq{Theme: "kitchen"}, `{"error":"unknown_theme"}`},
		{"no theme", setThemeReq{BonusWords: []string{"whisk"}}, `{"error":"unknown_theme"}`},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.call(t, http.MethodPost, "/daily/theme", tt.body, admin)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, tt.code, rec.Body.String())
		})
	}
}
