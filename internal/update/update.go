package update

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/calderanet/caldera-cli/internal/constants"
)

const (
	githubAPIURL  = "https://api.github.com/repos/calderanet/caldera-cli/releases/latest"
	releasesURL   = "https://github.com/calderanet/caldera-cli/releases"
	fetchTimeout  = 2 * time.Second
	cacheDuration = 24 * time.Hour
	cacheFileName = "update.json"
)

type githubRelease struct {
	TagName string `json:"tag_name"`
}

// cacheState remembers the last successful check so the GitHub API is hit
// at most once a day.
type cacheState struct {
	LatestVersion string    `json:"latest_version"`
	LastCheck     time.Time `json:"last_check"`
}

func cachePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, constants.DefaultDataFolderName, cacheFileName), nil
}

func loadCache(path string, logger *zerolog.Logger) *cacheState {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debug().Err(err).Msg("Failed to read update cache")
		}
		return &cacheState{}
	}

	var state cacheState
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupted cache is simply overwritten on the next save.
		logger.Debug().Err(err).Msg("Update cache corrupted, ignoring")
		return &cacheState{}
	}
	return &state
}

func saveCache(path string, state cacheState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o640)
}

func fetchLatestVersion() (string, error) {
	client := &http.Client{Timeout: fetchTimeout}

	req, err := http.NewRequest(http.MethodGet, githubAPIURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "caldera-cli-update-check")
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github API returned non-200 status: %s", resp.Status)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("failed to decode GitHub API response: %w", err)
	}
	if release.TagName == "" {
		return "", errors.New("github API response contained no tag_name")
	}
	return release.TagName, nil
}

// CheckForUpdates compares the running version against the latest GitHub
// release and nags on stderr when a newer one exists. Failures are logged
// at debug level and never surface to the user.
func CheckForUpdates(currentVersion string, logger *zerolog.Logger) {
	forceCheck := os.Getenv("CALDERA_FORCE_UPDATE_CHECK") == "1"
	if currentVersion == "development" && !forceCheck {
		logger.Debug().Msg("Development build, skipping update check")
		return
	}

	currentSemVer, err := semver.NewVersion(strings.TrimSpace(currentVersion))
	if err != nil {
		logger.Debug().Err(err).Str("version", currentVersion).Msg("Failed to parse current version")
		return
	}

	path, err := cachePath()
	if err != nil {
		logger.Debug().Err(err).Msg("Failed to resolve update cache path")
		return
	}

	cache := loadCache(path, logger)
	latest := cache.LatestVersion

	now := time.Now()
	if now.Sub(cache.LastCheck) > cacheDuration || forceCheck {
		fetched, fetchErr := fetchLatestVersion()
		if fetchErr != nil {
			// Keep stale cache data, the check is best-effort.
			logger.Debug().Err(fetchErr).Msg("Failed to fetch latest version")
		} else {
			latest = fetched
			cache.LatestVersion = fetched
			cache.LastCheck = now
			if err := saveCache(path, *cache); err != nil {
				logger.Debug().Err(err).Msg("Failed to save update cache")
			}
		}
	}

	if latest == "" {
		return
	}

	latestSemVer, err := semver.NewVersion(latest)
	if err != nil {
		logger.Debug().Err(err).Str("tag", latest).Msg("Failed to parse latest release tag")
		return
	}

	if latestSemVer.GreaterThan(currentSemVer) {
		// Stderr so it never mixes with pipeable command output.
		fmt.Fprintf(os.Stderr,
			"\nUpdate available! You're running %s, but %s is the latest.\nVisit %s to upgrade.\n\n",
			currentSemVer.String(),
			latestSemVer.String(),
			releasesURL,
		)
	}
}
