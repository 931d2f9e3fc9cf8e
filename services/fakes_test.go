package services

import (
	"context"
	"sort"
	"sync"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// In-memory фейки репозиториев. Возвращают копии, чтобы тесты видели только
// то, что сервис явно записал через Update*. Мьютексы нужны из-за
// конкурентного ReconcileAll.

type fakeTxRunner struct {
	mu    sync.Mutex
	calls int
}

func (r *fakeTxRunner) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return fn(nil)
}

func (r *fakeTxRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type fakeHub struct {
	messages []interface{}
	rooms    []string
}

func (h *fakeHub) BroadcastToRoom(roomID string, message interface{}) {
	h.rooms = append(h.rooms, roomID)
	h.messages = append(h.messages, message)
}

type fakeTeamRepo struct {
	teams  map[int]*models.Team
	nextID int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team), nextID: 1}
}

func (r *fakeTeamRepo) add(name, division string) *models.Team {
	t := &models.Team{ID: r.nextID, Name: name, Division: division}
	r.teams[t.ID] = t
	r.nextID++
	return t
}

func (r *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	for _, t := range r.teams {
		if t.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = r.nextID
	r.nextID++
	stored := *team
	r.teams[team.ID] = &stored
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTeamRepo) List(ctx context.Context, division string) ([]*models.Team, error) {
	var out []*models.Team
	for _, t := range r.teams {
		if division != "" && t.Division != division {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) Update(ctx context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	stored := *team
	r.teams[team.ID] = &stored
	return nil
}

func (r *fakeTeamRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.LogoKey = logoKey
	return nil
}

func (r *fakeTeamRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

type fakePlayerRepo struct {
	players map[int]*models.Player
	nextID  int
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[int]*models.Player), nextID: 1}
}

func (r *fakePlayerRepo) add(teamID int, firstName, lastName string) *models.Player {
	tid := teamID
	p := &models.Player{ID: r.nextID, TeamID: &tid, FirstName: firstName, LastName: lastName}
	r.players[p.ID] = p
	r.nextID++
	return p
}

func (r *fakePlayerRepo) Create(ctx context.Context, player *models.Player) error {
	player.ID = r.nextID
	r.nextID++
	stored := *player
	r.players[player.ID] = &stored
	return nil
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePlayerRepo) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	var out []*models.Player
	for _, p := range r.players {
		if p.TeamID != nil && *p.TeamID == teamID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePlayerRepo) Update(ctx context.Context, player *models.Player) error {
	if _, ok := r.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	stored := *player
	r.players[player.ID] = &stored
	return nil
}

func (r *fakePlayerRepo) UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error {
	p, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.PhotoKey = photoKey
	return nil
}

func (r *fakePlayerRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.players, id)
	return nil
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	matches map[int]*models.Match
	teams   *fakeTeamRepo
	nextID  int
}

func newFakeMatchRepo(teams *fakeTeamRepo) *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match), teams: teams, nextID: 1}
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	match.ID = r.nextID
	r.nextID++
	stored := *match
	r.matches[match.ID] = &stored
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMatchRepo) List(ctx context.Context, status *models.MatchStatus, teamID *int) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Match
	for _, m := range r.matches {
		if status != nil && m.Status != *status {
			continue
		}
		if teamID != nil && m.HomeTeamID != *teamID && m.AwayTeamID != *teamID {
			continue
		}
		copied := *m
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) ListCompletedByDivision(ctx context.Context, division string) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Match
	for _, m := range r.matches {
		if m.Status != models.MatchStatusCompleted {
			continue
		}
		if division != "" {
			home, ok := r.teams.teams[m.HomeTeamID]
			if !ok || home.Division != division {
				continue
			}
		}
		copied := *m
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) ListInconsistent(ctx context.Context) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Match
	for _, m := range r.matches {
		if m.Status == models.MatchStatusCompleted && !m.WinnerConsistent() {
			copied := *m
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) UpdateScoreStatusWinner(ctx context.Context, exec repositories.SQLExecutor, id int, homeScore, awayScore int, status models.MatchStatus, winnerTeamID *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.HomeScore = homeScore
	m.AwayScore = awayScore
	m.Status = status
	m.WinnerTeamID = winnerTeamID
	return nil
}

func (r *fakeMatchRepo) UpdateWinner(ctx context.Context, exec repositories.SQLExecutor, id int, winnerTeamID *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.WinnerTeamID = winnerTeamID
	return nil
}

func (r *fakeMatchRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

type fakeMatchResultRepo struct {
	mu      sync.Mutex
	results map[int]*models.MatchResult
	nextID  int
}

func newFakeMatchResultRepo() *fakeMatchResultRepo {
	return &fakeMatchResultRepo{results: make(map[int]*models.MatchResult), nextID: 1}
}

func (r *fakeMatchResultRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, result *models.MatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.results[result.MatchID]; ok {
		result.ID = existing.ID
	} else {
		result.ID = r.nextID
		r.nextID++
	}
	stored := *result
	r.results[result.MatchID] = &stored
	return nil
}

func (r *fakeMatchResultRepo) GetByMatchID(ctx context.Context, matchID int) (*models.MatchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[matchID]
	if !ok {
		return nil, repositories.ErrMatchResultNotFound
	}
	copied := *res
	return &copied, nil
}

func (r *fakeMatchResultRepo) UpdateWinner(ctx context.Context, exec repositories.SQLExecutor, matchID int, winnerTeamID *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[matchID]
	if !ok {
		return repositories.ErrMatchResultNotFound
	}
	res.WinnerTeamID = winnerTeamID
	return nil
}

func (r *fakeMatchResultRepo) DeleteByMatchID(ctx context.Context, exec repositories.SQLExecutor, matchID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.results, matchID)
	return nil
}

type fakeLineupRepo struct {
	entries []*models.MatchLineup
	nextID  int
}

func newFakeLineupRepo() *fakeLineupRepo {
	return &fakeLineupRepo{nextID: 1}
}

func (r *fakeLineupRepo) SetEntry(ctx context.Context, exec repositories.SQLExecutor, entry *models.MatchLineup) error {
	for _, e := range r.entries {
		if e.MatchID == entry.MatchID && e.TeamID == entry.TeamID && e.Position == entry.Position {
			e.PlayerID = entry.PlayerID
			entry.ID = e.ID
			return nil
		}
	}
	entry.ID = r.nextID
	r.nextID++
	stored := *entry
	r.entries = append(r.entries, &stored)
	return nil
}

func (r *fakeLineupRepo) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchLineup, error) {
	var out []*models.MatchLineup
	for _, e := range r.entries {
		if e.MatchID == matchID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeLineupRepo) ListByMatchAndTeam(ctx context.Context, matchID, teamID int) ([]*models.MatchLineup, error) {
	var out []*models.MatchLineup
	for _, e := range r.entries {
		if e.MatchID == matchID && e.TeamID == teamID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeLineupRepo) DeleteByMatchID(ctx context.Context, exec repositories.SQLExecutor, matchID int) error {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.MatchID != matchID {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

type frameKey struct {
	matchID     int
	frameNumber int
}

type fakeFrameResultRepo struct {
	frames map[frameKey]*models.FrameResult
	nextID int
}

func newFakeFrameResultRepo() *fakeFrameResultRepo {
	return &fakeFrameResultRepo{frames: make(map[frameKey]*models.FrameResult), nextID: 1}
}

func (r *fakeFrameResultRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, frame *models.FrameResult) error {
	key := frameKey{matchID: frame.MatchID, frameNumber: frame.FrameNumber}
	if existing, ok := r.frames[key]; ok {
		frame.ID = existing.ID
	} else {
		frame.ID = r.nextID
		r.nextID++
	}
	stored := *frame
	r.frames[key] = &stored
	return nil
}

func (r *fakeFrameResultRepo) ListByMatch(ctx context.Context, matchID int) ([]*models.FrameResult, error) {
	var out []*models.FrameResult
	for key, f := range r.frames {
		if key.matchID == matchID {
			copied := *f
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FrameNumber < out[j].FrameNumber })
	return out, nil
}

func (r *fakeFrameResultRepo) DeleteByMatchID(ctx context.Context, exec repositories.SQLExecutor, matchID int) error {
	for key := range r.frames {
		if key.matchID == matchID {
			delete(r.frames, key)
		}
	}
	return nil
}
