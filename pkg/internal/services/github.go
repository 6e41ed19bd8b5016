package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	localCache "git.solsynth.dev/hypernet/meeting/pkg/internal/cache"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// UpstreamError is a failed GitHub API call. Message is GitHub's own message
// when the response carried one.
type UpstreamError struct {
	Status  int
	Message string
}

func (v *UpstreamError) Error() string {
	return v.Message
}

var ErrInvalidRepoPath = errors.New("repository path must not contain relative segments")

// checkRepoPath rejects dot segments, they would step out of the repository
// endpoint into the rest of the GitHub API.
func checkRepoPath(segments ...string) error {
	for _, segment := range segments {
		for _, part := range strings.Split(segment, "/") {
			part, err := url.PathUnescape(part)
			if err != nil || part == "." || part == ".." {
				return ErrInvalidRepoPath
			}
		}
	}
	return nil
}

type githubCacheEntry struct {
	Body []byte
}

var githubURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/?#]+)`)

// ParseGithubURL extracts owner and repository from a github.com URL.
func ParseGithubURL(raw string) (owner, repo string, ok bool) {
	match := githubURLPattern.FindStringSubmatch(raw)
	if match == nil {
		return "", "", false
	}
	return match[1], strings.TrimSuffix(match[2], ".git"), true
}

func GetRepoInfo(owner, repo string) ([]byte, error) {
	if err := checkRepoPath(owner, repo); err != nil {
		return nil, err
	}
	return fetchGithub(fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo)))
}

// GetRepoContents lists a directory or returns a file. An empty path is the
// repository root.
func GetRepoContents(owner, repo, path string) ([]byte, error) {
	if err := checkRepoPath(owner, repo, path); err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("/repos/%s/%s/contents", url.PathEscape(owner), url.PathEscape(repo))
	if path = strings.Trim(path, "/"); len(path) > 0 {
		endpoint += "/" + path
	}
	return fetchGithub(endpoint)
}

func githubCacheKey(endpoint string) string {
	return fmt.Sprintf("github#%s", endpoint)
}

func fetchGithub(endpoint string) ([]byte, error) {
	var marshal *marshaler.Marshaler
	contx := context.Background()
	if localCache.S != nil {
		marshal = marshaler.New(cache.New[any](localCache.S))
		if val, err := marshal.Get(contx, githubCacheKey(endpoint), new(githubCacheEntry)); err == nil {
			return val.(*githubCacheEntry).Body, nil
		}
	}

	agent := fiber.Get(strings.TrimRight(viper.GetString("github.api_base"), "/") + endpoint)
	agent.Set(fiber.HeaderAccept, "application/vnd.github.v3+json")
	agent.Set(fiber.HeaderUserAgent, viper.GetString("github.user_agent"))
	agent.Timeout(15 * time.Second)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, &UpstreamError{Status: fiber.StatusBadGateway, Message: errs[0].Error()}
	}
	if status != fiber.StatusOK {
		var data struct {
			Message string `json:"message"`
		}
		if err := jsoniter.Unmarshal(body, &data); err != nil || len(data.Message) == 0 {
			data.Message = fmt.Sprintf("Request failed with status code %d (%s)", status, http.StatusText(status))
		}
		return nil, &UpstreamError{Status: status, Message: data.Message}
	}

	if marshal != nil {
		if err := marshal.Set(
			contx,
			githubCacheKey(endpoint),
			githubCacheEntry{Body: body},
			store.WithExpiration(viper.GetDuration("github.cache_ttl")),
			store.WithTags([]string{"github"}),
		); err != nil {
			log.Warn().Err(err).Str("endpoint", endpoint).Msg("Unable to cache github response...")
		}
	}

	return body, nil
}
