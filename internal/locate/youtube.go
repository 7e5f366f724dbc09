package locate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/kkdai/youtube/v2"

	"github.com/SohamBorate/spot-dl-downloader/internal/constants"
)

const (
	searchURL     = "https://www.youtube.com/results?search_query="
	watchURL      = "https://www.youtube.com/watch?v="
	maxCandidates = 5
)

// videoPattern extracts the video id and title of each result entry
// from the search results page.
var videoPattern = regexp.MustCompile(`"videoRenderer":\{"videoId":"([a-zA-Z0-9_-]{11})".*?"title":\{"runs":\[\{"text":"((?:[^"\\]|\\.)*)"`)

// YouTube locates audio by scraping the search results page, ranking
// candidates by title similarity, and streaming the best match's
// highest-bitrate audio format.
type YouTube struct {
	http *http.Client
	yt   youtube.Client
}

func NewYouTube() *YouTube {
	return &YouTube{
		http: &http.Client{Timeout: constants.SearchHTTPTimeout},
	}
}

// SearchOne returns the candidate whose title is closest to the query
// by Jaro-Winkler similarity, out of the first few search results.
func (y *YouTube) SearchOne(ctx context.Context, query string) (*Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := y.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	candidates := parseCandidates(string(body))
	if len(candidates) == 0 {
		return nil, ErrNotFound
	}

	return rank(query, candidates), nil
}

func parseCandidates(body string) []Candidate {
	matches := videoPattern.FindAllStringSubmatch(body, maxCandidates)
	candidates := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, Candidate{
			URL:   watchURL + m[1],
			Title: unescapeJSON(m[2]),
		})
	}
	return candidates
}

func unescapeJSON(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return s
	}
	return out
}

func rank(query string, candidates []Candidate) *Candidate {
	jw := metrics.NewJaroWinkler()
	best := &candidates[0]
	bestScore := -1.0
	for i := range candidates {
		score := strutil.Similarity(strings.ToLower(query), strings.ToLower(candidates[i].Title), jw)
		if score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}
	return best
}

// Fetch opens the highest-bitrate audio-only stream of the video at url.
func (y *YouTube) Fetch(ctx context.Context, videoURL string) (io.ReadCloser, error) {
	video, err := y.yt.GetVideoContext(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}

	format := bestAudioFormat(video.Formats)
	if format == nil {
		return nil, fmt.Errorf("%w: no audio format for %s", ErrNotFound, videoURL)
	}

	stream, _, err := y.yt.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	return stream, nil
}

func bestAudioFormat(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "audio/") {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}
