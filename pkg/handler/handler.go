// Package handler exposes the director over gRPC.
package handler

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "eventchaos.director.v1.Director"

	// CodecName is the content subtype Director messages are encoded with.
	CodecName = "json"

	// DefaultLeaderboardSize is used when GetLeaderboard has no limit.
	DefaultLeaderboardSize = 10

	// MaxLeaderboardSize caps GetLeaderboard requests.
	MaxLeaderboardSize = 100
)
