package media

import "regexp"

// youtubeIDPattern accepts the watch, embed and short-link URL forms and
// captures the 11 character video identifier.
var youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:watch\?v=|embed/)|youtu\.be/)([\w-]{11})`)

// YouTubeID extracts the video identifier from a YouTube URL. The second
// return value is false when the URL does not contain one.
func YouTubeID(rawURL string) (string, bool) {
	match := youtubeIDPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// EmbedURL builds the canonical embed URL for a video identifier.
func EmbedURL(videoID string) string {
	return "https://www.youtube.com/embed/" + videoID
}

// CanonicalizeVideoURL rewrites any recognised YouTube URL into its embed
// form. Unrecognised URLs are returned unchanged so the server can report
// them instead of the client silently dropping them.
func CanonicalizeVideoURL(rawURL string) string {
	id, ok := YouTubeID(rawURL)
	if !ok {
		return rawURL
	}
	return EmbedURL(id)
}
