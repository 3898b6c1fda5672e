package storage

// Tier is a single key-value backing store. Implementations report
// failures as errors; the Adapter decides what to do about them.
type Tier interface {
	// Name returns a short identifier for logging, e.g. "sqlite", "jar".
	Name() string

	// Probe reports whether the tier currently accepts writes. It is
	// implemented as a throwaway write-then-delete, so a tier that is
	// readable but full reports false.
	Probe() bool

	// Set stores the serialized value under key.
	Set(key, value string) error

	// Get returns the stored value and whether it was present.
	Get(key string) (string, bool)

	// Remove deletes key. Missing keys are not an error.
	Remove(key string) error
}

// Well-known persisted keys. Legacy jar entries use the same names.
const (
	KeyStats              = "lid.stats"
	KeyMode               = "lid.mode"
	KeyAnswers            = "lid.answers"
	KeyFlags              = "lid.flags"
	KeyQuizDuration       = "lid.quizDuration"
	KeyExcludeCorrect     = "lid.excludeCorrect"
	KeySelectedState      = "lid.selectedState"
	KeyMigrationCompleted = "lid.migrationCompleted"
	KeyConsent            = "lid.consent"
	KeyDark               = "lid.dark"
	KeyVersion            = "lid.version"
)

// LegacyKeys lists the keys the one-time migration pass copies from the
// jar tier into the durable tier.
var LegacyKeys = []string{
	KeyStats,
	KeyMode,
	KeyAnswers,
	KeyFlags,
	KeyQuizDuration,
	KeyExcludeCorrect,
	KeySelectedState,
	KeyConsent,
	KeyDark,
}

const probeKey = "lid.__probe"
