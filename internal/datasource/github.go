package datasource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"ghstats/internal/models"
	"ghstats/internal/providers"
	"ghstats/internal/structures"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const userAgent = "ghstats/1.0"

// GithubClient talks to the GitHub REST and GraphQL APIs. All outbound requests share
// one rate limiter.
type GithubClient struct {
	client     *http.Client
	restURL    string
	graphqlURL string
	token      string
	limiter    *rate.Limiter
	logger     providers.Logger
}

func NewGithubClient(conf *structures.Config, logger providers.Logger) *GithubClient {
	limit := rate.Inf
	burst := 1
	if rps := conf.Github.RequestsPerSecond; rps > 0 {
		limit = rate.Limit(rps)
		if int(rps) > burst {
			burst = int(rps)
		}
	}
	if conf.Github.Token == "" {
		logger.Warnf(providers.TypeUpstream, "No GitHub token configured, GraphQL queries will fail and REST limits are low")
	}

	return &GithubClient{
		client:     &http.Client{Timeout: conf.Github.Timeout},
		restURL:    strings.TrimRight(conf.Github.RestURL, "/"),
		graphqlURL: conf.Github.GraphQLURL,
		token:      conf.Github.Token,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
	}
}

// NewActivityDataSource exposes the GitHub client behind the ActivityDataSource interface.
func NewActivityDataSource(conf *structures.Config, logger providers.Logger) ActivityDataSource {
	return NewGithubClient(conf, logger)
}

type githubUser struct {
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type githubRepo struct {
	Name            string `json:"name"`
	Fork            bool   `json:"fork"`
	StargazersCount int    `json:"stargazers_count"`
	Owner           struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type graphqlError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

func (g *GithubClient) FetchUser(ctx context.Context, username string) (*models.UserProfile, error) {
	var u githubUser
	status, err := g.getJSON(ctx, "user", g.restURL+"/users/"+url.PathEscape(username), &u, nil)
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{Login: u.Login, Name: u.Name, CreatedAt: u.CreatedAt}, nil
}

func (g *GithubClient) FetchRepositories(ctx context.Context, username string) ([]models.Repository, error) {
	var all []models.Repository
	nextURL := fmt.Sprintf("%s/users/%s/repos?per_page=100&type=owner", g.restURL, url.PathEscape(username))

	for nextURL != "" {
		var page []githubRepo
		var header http.Header
		if _, err := g.getJSON(ctx, "repositories", nextURL, &page, &header); err != nil {
			return nil, err
		}
		for _, r := range page {
			all = append(all, models.Repository{
				Name:  r.Name,
				Owner: r.Owner.Login,
				Fork:  r.Fork,
				Stars: r.StargazersCount,
			})
		}
		nextURL = nextLink(header.Get("Link"))
	}
	return all, nil
}

func (g *GithubClient) FetchRepoLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	langs := map[string]int{}
	endpoint := fmt.Sprintf("%s/repos/%s/%s/languages", g.restURL, url.PathEscape(owner), url.PathEscape(repo))
	if _, err := g.getJSON(ctx, "languages", endpoint, &langs, nil); err != nil {
		return nil, err
	}
	return langs, nil
}

func (g *GithubClient) FetchAuthoredCount(ctx context.Context, username string, kind AuthoredKind) (int, error) {
	if kind != KindPullRequest && kind != KindIssue {
		return 0, fmt.Errorf("unknown authored kind %q", kind)
	}
	q := url.Values{}
	q.Set("q", fmt.Sprintf("type:%s author:%s", kind, username))
	q.Set("per_page", "1")

	var result struct {
		TotalCount int `json:"total_count"`
	}
	if _, err := g.getJSON(ctx, "search "+string(kind), g.restURL+"/search/issues?"+q.Encode(), &result, nil); err != nil {
		return 0, err
	}
	return result.TotalCount, nil
}

const calendarQuery = `query($login: String!) {
  user(login: $login) {
    contributionsCollection {
      contributionCalendar {
        weeks { contributionDays { date contributionCount } }
      }
    }
  }
}`

func (g *GithubClient) FetchDailyActivity(ctx context.Context, username string) ([]models.ActivityDay, error) {
	var data struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					Weeks []struct {
						ContributionDays []models.ActivityDay `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	}
	if err := g.graphql(ctx, "calendar", calendarQuery, map[string]interface{}{"login": username}, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	var days []models.ActivityDay
	for _, w := range data.User.ContributionsCollection.ContributionCalendar.Weeks {
		days = append(days, w.ContributionDays...)
	}
	return days, nil
}

const periodQuery = `query($login: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $login) {
    contributionsCollection(from: $from, to: $to) {
      contributionCalendar { totalContributions }
    }
  }
}`

func (g *GithubClient) FetchPeriodTotal(ctx context.Context, username string, window models.PeriodWindow) (int, error) {
	var data struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					TotalContributions int `json:"totalContributions"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	}
	vars := map[string]interface{}{
		"login": username,
		"from":  window.From.UTC().Format(time.RFC3339),
		"to":    window.To.UTC().Format(time.RFC3339),
	}
	if err := g.graphql(ctx, "period "+window.String(), periodQuery, vars, &data); err != nil {
		return 0, err
	}
	if data.User == nil {
		return 0, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return data.User.ContributionsCollection.ContributionCalendar.TotalContributions, nil
}

const commitsQuery = `query($login: String!) {
  user(login: $login) {
    contributionsCollection { totalCommitContributions }
  }
}`

func (g *GithubClient) FetchTotalCommits(ctx context.Context, username string) (int, error) {
	var data struct {
		User *struct {
			ContributionsCollection struct {
				TotalCommitContributions int `json:"totalCommitContributions"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	}
	if err := g.graphql(ctx, "commits", commitsQuery, map[string]interface{}{"login": username}, &data); err != nil {
		return 0, err
	}
	if data.User == nil {
		return 0, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return data.User.ContributionsCollection.TotalCommitContributions, nil
}

const repoCountsQuery = `query($login: String!) {
  user(login: $login) {
    repositories(first: 1, ownerAffiliations: OWNER) { totalCount }
    repositoriesContributedTo(first: 1, contributionTypes: [COMMIT, PULL_REQUEST, ISSUE]) { totalCount }
  }
}`

func (g *GithubClient) FetchRepoCounts(ctx context.Context, username string) (models.RepoCounts, error) {
	var data struct {
		User *struct {
			Repositories struct {
				TotalCount int `json:"totalCount"`
			} `json:"repositories"`
			RepositoriesContributedTo struct {
				TotalCount int `json:"totalCount"`
			} `json:"repositoriesContributedTo"`
		} `json:"user"`
	}
	if err := g.graphql(ctx, "repo counts", repoCountsQuery, map[string]interface{}{"login": username}, &data); err != nil {
		return models.RepoCounts{}, err
	}
	if data.User == nil {
		return models.RepoCounts{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	owned := data.User.Repositories.TotalCount
	contributed := data.User.RepositoriesContributedTo.TotalCount
	return models.RepoCounts{Owned: owned, Contributed: contributed, Total: owned + contributed}, nil
}

func (g *GithubClient) graphql(ctx context.Context, op, query string, vars map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": vars})
	if err != nil {
		return fmt.Errorf("%s: encode query: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.graphqlURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.do(ctx, op, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var gr graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	if len(gr.Errors) > 0 {
		for _, e := range gr.Errors {
			if e.Type == "NOT_FOUND" {
				return fmt.Errorf("%w: %s", ErrUserNotFound, e.Message)
			}
		}
		return &UpstreamError{Op: op, Message: gr.Errors[0].Message}
	}
	if len(gr.Data) == 0 || string(gr.Data) == "null" {
		return &UpstreamError{Op: op, Message: "empty data"}
	}
	if err := json.Unmarshal(gr.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", op, err)
	}
	return nil
}

// getJSON issues a GET and decodes a 2xx body into out. The status is returned even on
// failure so callers can map 404s. header, when non-nil, receives the response headers.
func (g *GithubClient) getJSON(ctx context.Context, op, endpoint string, out interface{}, header *http.Header) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: new request: %w", op, err)
	}

	resp, err := g.do(ctx, op, req)
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) {
			return ue.Status, err
		}
		return 0, err
	}
	defer resp.Body.Close()

	if header != nil {
		*header = resp.Header
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return resp.StatusCode, nil
}

// do waits for the limiter, sends req and turns non-2xx responses into *UpstreamError.
func (g *GithubClient) do(ctx context.Context, op string, req *http.Request) (*http.Response, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limiter: %w", op, err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Errorf(providers.TypeUpstream, "%s %s failed: %s", req.Method, req.URL.Path, err)
		return nil, fmt.Errorf("%s: do request: %w", op, err)
	}
	g.logger.Debugf(providers.TypeUpstream, "%s %s -> %d in %s", req.Method, req.URL.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, &UpstreamError{Op: op, Status: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	return resp, nil
}

// nextLink extracts the rel="next" target from a Link header.
func nextLink(linkHeader string) string {
	for _, link := range strings.Split(linkHeader, ",") {
		parts := strings.Split(link, ";")
		if len(parts) < 2 {
			continue
		}
		for _, p := range parts[1:] {
			if strings.TrimSpace(p) == `rel="next"` {
				return strings.Trim(strings.TrimSpace(parts[0]), "<>")
			}
		}
	}
	return ""
}
