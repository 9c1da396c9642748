package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) CreateGame(ctx context.Context, seed, startingCash int64, slot string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games", map[string]any{
		"seed":          seed,
		"starting_cash": startingCash,
		"slot":          slot,
	}, &out, "")
	return out, err
}

func (c *Client) LoadGame(ctx context.Context, slot string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/load", map[string]any{
		"slot": slot,
	}, &out, "")
	return out, err
}

func (c *Client) GameStatus(ctx context.Context, gameID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID), nil, &out, "")
	return out, err
}

func (c *Client) EndWeek(ctx context.Context, gameID, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/week", nil, &out, idem)
	return out, err
}

func (c *Client) SaveGame(ctx context.Context, gameID, slot string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/save", map[string]any{
		"slot": slot,
	}, &out, "")
	return out, err
}

func (c *Client) ListSaves(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/saves", nil, &out, "")
	return out, err
}

func (c *Client) RevealEvents(ctx context.Context, gameID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID)+"/events", nil, &out, "")
	return out, err
}

func (c *Client) Ledger(ctx context.Context, gameID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID)+"/ledger", nil, &out, "")
	return out, err
}

func (c *Client) ListProjects(ctx context.Context, gameID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID)+"/projects", nil, &out, "")
	return out, err
}

func (c *Client) ProjectDetail(ctx context.Context, gameID, projectID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, c.projectPath(gameID, projectID, ""), nil, &out, "")
	return out, err
}

func (c *Client) Projection(ctx context.Context, gameID, projectID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, c.projectPath(gameID, projectID, "projection"), nil, &out, "")
	return out, err
}

// ProjectAction runs the no-body project operations: advance, abandon,
// sprint, polish, screening, reshoot, festival, tracking-advance.
func (c *Client) ProjectAction(ctx context.Context, gameID, projectID, action, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, c.projectPath(gameID, projectID, action), nil, &out, idem)
	return out, err
}

func (c *Client) AllocateMarketing(ctx context.Context, gameID, projectID string, amount int64, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, c.projectPath(gameID, projectID, "marketing"), map[string]any{
		"amount": amount,
	}, &out, idem)
	return out, err
}

func (c *Client) SetReleaseWindow(ctx context.Context, gameID, projectID, window, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, c.projectPath(gameID, projectID, "window"), map[string]any{
		"window": window,
	}, &out, idem)
	return out, err
}

func (c *Client) AcceptOffer(ctx context.Context, gameID, projectID, offerID, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, c.projectPath(gameID, projectID, "offers/"+url.PathEscape(offerID)+"/accept"), nil, &out, idem)
	return out, err
}

func (c *Client) CounterOffer(ctx context.Context, gameID, projectID, offerID, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, c.projectPath(gameID, projectID, "offers/"+url.PathEscape(offerID)+"/counter"), nil, &out, idem)
	return out, err
}

func (c *Client) WalkAway(ctx context.Context, gameID, projectID, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, c.projectPath(gameID, projectID, "offers/walkaway"), nil, &out, idem)
	return out, err
}

func (c *Client) ScriptMarket(ctx context.Context, gameID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID)+"/market", nil, &out, "")
	return out, err
}

func (c *Client) AcquireScript(ctx context.Context, gameID, pitchID, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/games/%s/market/%s/acquire", url.PathEscape(gameID), url.PathEscape(pitchID)), nil, &out, idem)
	return out, err
}

func (c *Client) PassScript(ctx context.Context, gameID, pitchID, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/games/%s/market/%s/pass", url.PathEscape(gameID), url.PathEscape(pitchID)), nil, &out, idem)
	return out, err
}

func (c *Client) ListTalent(ctx context.Context, gameID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID)+"/talent", nil, &out, "")
	return out, err
}

func (c *Client) StartNegotiation(ctx context.Context, gameID, talentID, projectID, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/negotiations", map[string]any{
		"talent_id":  talentID,
		"project_id": projectID,
	}, &out, idem)
	return out, err
}

func (c *Client) NegotiationMove(ctx context.Context, gameID, talentID, move, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/games/%s/negotiations/%s/move", url.PathEscape(gameID), url.PathEscape(talentID)), map[string]any{
		"move": move,
	}, &out, idem)
	return out, err
}

func (c *Client) QuickClose(ctx context.Context, gameID, talentID, projectID, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/games/%s/negotiations/%s/quick-close", url.PathEscape(gameID), url.PathEscape(talentID)), map[string]any{
		"project_id": projectID,
	}, &out, idem)
	return out, err
}

func (c *Client) ListCrises(ctx context.Context, gameID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID)+"/crises", nil, &out, "")
	return out, err
}

func (c *Client) ResolveCrisis(ctx context.Context, gameID, crisisID, optionID, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/games/%s/crises/%s/resolve", url.PathEscape(gameID), url.PathEscape(crisisID)), map[string]any{
		"option_id": optionID,
	}, &out, idem)
	return out, err
}

func (c *Client) ListDecisions(ctx context.Context, gameID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID)+"/decisions", nil, &out, "")
	return out, err
}

func (c *Client) ResolveDecision(ctx context.Context, gameID, decisionID, optionID, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/games/%s/decisions/%s/resolve", url.PathEscape(gameID), url.PathEscape(decisionID)), map[string]any{
		"option_id": optionID,
	}, &out, idem)
	return out, err
}

func (c *Client) ListRivals(ctx context.Context, gameID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID)+"/rivals", nil, &out, "")
	return out, err
}

func (c *Client) ListFranchises(ctx context.Context, gameID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID)+"/franchises", nil, &out, "")
	return out, err
}

func (c *Client) LaunchFranchise(ctx context.Context, gameID, projectID, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/franchises", map[string]any{
		"project_id": projectID,
	}, &out, idem)
	return out, err
}

func (c *Client) StartSequel(ctx context.Context, gameID, franchiseID, title, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/games/%s/franchises/%s/sequel", url.PathEscape(gameID), url.PathEscape(franchiseID)), map[string]any{
		"title": title,
	}, &out, idem)
	return out, err
}

func (c *Client) SetFranchiseStrategy(ctx context.Context, gameID, franchiseID, strategy, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/games/%s/franchises/%s/strategy", url.PathEscape(gameID), url.PathEscape(franchiseID)), map[string]any{
		"strategy": strategy,
	}, &out, idem)
	return out, err
}

func (c *Client) Do(ctx context.Context, method, path string, body map[string]any, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, method, path, body, &out, idem)
	return out, err
}

func (c *Client) projectPath(gameID, projectID, tail string) string {
	p := fmt.Sprintf("/v1/games/%s/projects/%s", url.PathEscape(gameID), url.PathEscape(projectID))
	if tail != "" {
		p += "/" + tail
	}
	return p
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any, idem string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idem != "" {
		req.Header.Set("Idempotency-Key", idem)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// 422 carries an in-world refusal, not a transport failure. The payload
	// is the result the caller wants to show.
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusUnprocessableEntity {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
