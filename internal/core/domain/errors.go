package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidGeneration is returned when a generation identifier is empty or malformed.
	ErrInvalidGeneration = zerr.New("invalid cache generation identifier")

	// ErrInvalidBucketName is returned when a cache bucket name cannot be used as a storage key.
	ErrInvalidBucketName = zerr.New("invalid cache bucket name")

	// ErrInvalidAsset is returned when a manifest entry cannot be parsed as a resource locator.
	ErrInvalidAsset = zerr.New("invalid manifest asset")

	// ErrEmptyManifest is returned when the asset manifest has no entries.
	ErrEmptyManifest = zerr.New("asset manifest is empty")

	// ErrInvalidInstallPolicy is returned when the install policy is not recognized.
	ErrInvalidInstallPolicy = zerr.New("invalid install policy, expected 'best-effort' or 'atomic'")

	// ErrInvalidScope is returned when the scope origin is missing or not an absolute http(s) URL.
	ErrInvalidScope = zerr.New("invalid scope origin")

	// ErrInvalidUpstream is returned when the upstream origin is missing or not an absolute http(s) URL.
	ErrInvalidUpstream = zerr.New("invalid upstream origin")

	// ErrInvalidStorageDriver is returned when the storage driver is not recognized.
	ErrInvalidStorageDriver = zerr.New("invalid storage driver, expected 'memory', 'disk' or 'sqlite'")

	// ErrConfigNotFound is returned when no configuration file can be found.
	ErrConfigNotFound = zerr.New("could not find offline.yaml or offline.toml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigEnvFailed is returned when environment overrides cannot be applied.
	ErrConfigEnvFailed = zerr.New("failed to apply environment overrides")

	// ErrAssetFetchFailed is returned when a manifest asset cannot be fetched during install.
	ErrAssetFetchFailed = zerr.New("failed to fetch manifest asset")

	// ErrAssetNotOK is returned when a manifest asset is fetched with a non-2xx status.
	ErrAssetNotOK = zerr.New("manifest asset returned a non-ok status")

	// ErrInstallFailed is returned when the install phase fails under the atomic policy.
	ErrInstallFailed = zerr.New("worker install failed")

	// ErrActivateFailed is returned when stale buckets could not all be removed.
	ErrActivateFailed = zerr.New("worker activate failed")

	// ErrCacheOpenFailed is returned when a cache bucket cannot be opened.
	ErrCacheOpenFailed = zerr.New("failed to open cache bucket")

	// ErrCacheReadFailed is returned when a cache lookup fails.
	ErrCacheReadFailed = zerr.New("failed to read cache entry")

	// ErrCacheWriteFailed is returned when a cache entry cannot be stored.
	ErrCacheWriteFailed = zerr.New("failed to write cache entry")

	// ErrCacheDeleteFailed is returned when a cache bucket or entry cannot be removed.
	ErrCacheDeleteFailed = zerr.New("failed to delete cache bucket")

	// ErrCacheCorrupt is returned when a stored entry does not match its digest.
	ErrCacheCorrupt = zerr.New("cache entry is corrupt")

	// ErrNetworkFailed is returned when a network fetch fails before a response is available.
	ErrNetworkFailed = zerr.New("network request failed")

	// ErrFallbackUnavailable is returned when no offline document can be produced.
	ErrFallbackUnavailable = zerr.New("offline fallback document unavailable")

	// ErrFallbackNotSelfContained is returned when the offline document references external resources.
	ErrFallbackNotSelfContained = zerr.New("offline fallback document references external resources")

	// ErrNoActiveWorker is returned when an operation needs an active worker and none exists.
	ErrNoActiveWorker = zerr.New("no active worker")

	// ErrWorkerRedundant is returned when a worker is used after it became redundant.
	ErrWorkerRedundant = zerr.New("worker is redundant")

	// ErrControlUnavailable is returned when the control socket of a running gateway cannot be reached.
	ErrControlUnavailable = zerr.New("offline gateway control socket unavailable")

	// ErrInvalidMessage is returned when a message cannot be decoded.
	ErrInvalidMessage = zerr.New("invalid message payload")

	// ErrGatewayRunning is returned when an operation needs the gateway to be stopped.
	ErrGatewayRunning = zerr.New("offline gateway is running, stop it first")

	// ErrInvalidLogFormat is returned when the log format is not recognized.
	ErrInvalidLogFormat = zerr.New("invalid log format, expected 'auto', 'text' or 'json'")
)
