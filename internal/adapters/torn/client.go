// Package torn fetches wars, chains and chain attacks from the Torn API.
package torn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/okian/warcut/internal/domain/dedupe"
	"github.com/okian/warcut/internal/domain/model"
	"github.com/okian/warcut/pkg/logger"
	"github.com/okian/warcut/pkg/metrics"
)

// Selections requested from the faction endpoint.
const (
	SelectionRankedWars = "rankedwars"
	SelectionChains     = "chains"
	SelectionAttacks    = "attacks"
)

const (
	defaultBaseURL   = "https://api.torn.com"
	defaultPageSize  = 100
	defaultTimeout   = 30 * time.Second
	defaultUntracked = "Untitled"
	requestComment   = "warcut"
)

// Client talks to the faction endpoint of the Torn API.
type Client struct {
	baseURL     string
	apiKey      string
	factionID   string
	httpClient  *http.Client
	limiter     *rate.Limiter
	concurrency int
	pageSize    int
	untracked   string
	logger      logger.Logger
	now         func() time.Time
}

// New creates a Client for the given key and faction.
func New(apiKey, factionID string, opts ...Option) (*Client, error) {
	if apiKey == "" || factionID == "" {
		return nil, fmt.Errorf("%w: api key and faction id are required", ErrInvalidClient)
	}

	c := &Client{
		baseURL:     defaultBaseURL,
		apiKey:      apiKey,
		factionID:   factionID,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		limiter:     rate.NewLimiter(rate.Every(time.Second), 1),
		concurrency: 1,
		pageSize:    defaultPageSize,
		untracked:   defaultUntracked,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("torn")
	}
	return c, nil
}

type apiError struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

type envelope struct {
	Error *apiError `json:"error"`
}

type rankedWarsResponse struct {
	RankedWars map[string]struct {
		Factions map[string]struct {
			Name string `json:"name"`
		} `json:"factions"`
		War struct {
			Start int64 `json:"start"`
			End   int64 `json:"end"`
		} `json:"war"`
	} `json:"rankedwars"`
}

type chainsResponse struct {
	Chains map[string]struct {
		Start int64 `json:"start"`
		End   int64 `json:"end"`
	} `json:"chains"`
}

type attack struct {
	Code                string `json:"code"`
	TimestampEnded      int64  `json:"timestamp_ended"`
	AttackerName        string `json:"attacker_name"`
	DefenderFactionName string `json:"defender_factionname"`
	Chain               int    `json:"chain"`
}

type attacksResponse struct {
	Attacks map[string]attack `json:"attacks"`
}

// LatestWar returns the most recently started ranked war of the faction. A
// war that has not ended yet is closed at the current time.
func (c *Client) LatestWar(ctx context.Context) (model.War, error) {
	var resp rankedWarsResponse
	if err := c.get(ctx, SelectionRankedWars, nil, &resp); err != nil {
		return model.War{}, err
	}

	var (
		war   model.War
		found bool
	)
	for id, w := range resp.RankedWars {
		if found && (w.War.Start < war.StartedAt || (w.War.Start == war.StartedAt && id < war.ID)) {
			continue
		}
		opposing := ""
		for fid, f := range w.Factions {
			if fid != c.factionID {
				opposing = f.Name
			}
		}
		war = model.War{ID: id, StartedAt: w.War.Start, EndedAt: w.War.End, OpposingFaction: opposing}
		found = true
	}
	if !found {
		return model.War{}, ErrNoWar
	}
	if war.OpposingFaction == "" {
		return model.War{}, fmt.Errorf("%w: war %s has no opposing faction", ErrNoWar, war.ID)
	}
	if war.EndedAt == 0 {
		war.EndedAt = c.now().Unix()
		c.logger.Info(ctx, "war still running, closing window now",
			logger.String("war", war.ID),
			logger.Int64("end", war.EndedAt),
		)
	}
	return war, nil
}

// Chains returns the faction's chains in [from, to] ordered by start time.
func (c *Client) Chains(ctx context.Context, from, to int64) ([]model.Chain, error) {
	var resp chainsResponse
	if err := c.get(ctx, SelectionChains, window(from, to), &resp); err != nil {
		return nil, err
	}

	chains := make([]model.Chain, 0, len(resp.Chains))
	for id, ch := range resp.Chains {
		chains = append(chains, model.Chain{ID: id, StartedAt: ch.Start, EndedAt: ch.End})
	}
	sort.Slice(chains, func(i, j int) bool {
		if chains[i].StartedAt != chains[j].StartedAt {
			return chains[i].StartedAt < chains[j].StartedAt
		}
		return chains[i].ID < chains[j].ID
	})
	return chains, nil
}

// Actions fetches the chain attacks of every chain over its window extended
// by grace. Windows are fetched concurrently and merged in chain order; an
// attack seen by more than one window belongs to the first chain.
func (c *Client) Actions(ctx context.Context, chains []model.Chain, grace time.Duration) ([]model.Action, error) {
	perChain := make([][]model.Action, len(chains))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, ch := range chains {
		i, ch := i, ch
		g.Go(func() error {
			actions, err := c.chainActions(gctx, ch, ch.EndedAt+int64(grace/time.Second))
			if err != nil {
				return fmt.Errorf("chain %s: %w", ch.ID, err)
			}
			perChain[i] = actions
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := dedupe.NewInMemoryDeduper()
	var out []model.Action
	for _, actions := range perChain {
		for _, a := range actions {
			if seen.SeenAndRecord(ctx, a.ID) {
				metrics.RecordDuplicateAttack()
				continue
			}
			out = append(out, a)
		}
	}
	c.logger.Debug(ctx, "fetched chain attacks",
		logger.Int("chains", len(chains)),
		logger.Int("attacks", len(out)),
	)
	return out, nil
}

// chainActions pages through one chain window. A page shorter than the page
// size ends the window; otherwise the next page starts at the latest end
// time seen.
func (c *Client) chainActions(ctx context.Context, ch model.Chain, to int64) ([]model.Action, error) {
	var out []model.Action
	from := ch.StartedAt
	for {
		var resp attacksResponse
		if err := c.get(ctx, SelectionAttacks, window(from, to), &resp); err != nil {
			return nil, err
		}

		ids := make([]string, 0, len(resp.Attacks))
		for id := range resp.Attacks {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		last := from
		for _, id := range ids {
			a := resp.Attacks[id]
			if a.TimestampEnded > last {
				last = a.TimestampEnded
			}
			if a.Chain <= 0 || a.DefenderFactionName == c.untracked {
				continue
			}
			code := a.Code
			if code == "" {
				code = id
			}
			out = append(out, model.Action{
				ID:           code,
				ChainID:      ch.ID,
				ActorID:      a.AttackerName,
				TargetGroup:  a.DefenderFactionName,
				EndedAt:      a.TimestampEnded,
				ChainCounter: a.Chain,
			})
		}

		if len(resp.Attacks) < c.pageSize || last <= from {
			return out, nil
		}
		from = last
	}
}

func window(from, to int64) url.Values {
	v := url.Values{}
	v.Set("from", strconv.FormatInt(from, 10))
	v.Set("to", strconv.FormatInt(to, 10))
	return v
}

func (c *Client) get(ctx context.Context, selection string, params url.Values, out any) error {
	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	metrics.RecordRateLimitWait(float64(time.Since(waitStart).Milliseconds()))

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("key", c.apiKey)
	q.Set("selections", selection)
	q.Set("comment", requestComment)
	endpoint := fmt.Sprintf("%s/faction/%s?%s", c.baseURL, url.PathEscape(c.factionID), q.Encode())

	start := time.Now()
	status := "ok"
	defer func() {
		metrics.RecordAPIRequest(selection, status, float64(time.Since(start).Milliseconds()))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		status = "transport"
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		status = "transport"
		metrics.RecordErrorByComponent("torn", "transport")
		return fmt.Errorf("%s request: %w", selection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		status = "transport"
		return fmt.Errorf("%s read body: %w", selection, err)
	}
	if resp.StatusCode != http.StatusOK {
		status = strconv.Itoa(resp.StatusCode)
		metrics.RecordErrorByComponent("torn", "status")
		return fmt.Errorf("%w: %s returned status %d", ErrAPI, selection, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		status = "decode"
		metrics.RecordErrorByComponent("torn", "decode")
		return fmt.Errorf("%w: %s: %w", ErrDecode, selection, err)
	}
	if env.Error != nil {
		status = "api_error"
		metrics.RecordErrorByComponent("torn", "api_error")
		return fmt.Errorf("%w: %s: code %d: %s", ErrAPI, selection, env.Error.Code, env.Error.Error)
	}
	if err := json.Unmarshal(body, out); err != nil {
		status = "decode"
		metrics.RecordErrorByComponent("torn", "decode")
		return fmt.Errorf("%w: %s: %w", ErrDecode, selection, err)
	}

	c.logger.Debug(ctx, "torn request done",
		logger.String("selection", selection),
		logger.Int("bytes", len(body)),
	)
	return nil
}
