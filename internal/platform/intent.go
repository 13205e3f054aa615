package platform

// Intent actions and categories understood by the hosts
const (
	ActionMain = "android.intent.action.MAIN"
	ActionView = "android.intent.action.VIEW"

	CategoryLauncher = "android.intent.category.LAUNCHER"
	CategoryHome     = "android.intent.category.HOME"
	CategoryDefault  = "android.intent.category.DEFAULT"
)

// IntentFlags mirrors the Android intent flag bits
type IntentFlags uint32

const (
	FlagGrantReadURIPermission     IntentFlags = 0x00000001
	FlagActivityExcludeFromRecents IntentFlags = 0x00800000
	FlagActivityClearTask          IntentFlags = 0x00008000
	FlagActivityNewTask            IntentFlags = 0x10000000
)

// Intent is an explicit request to start an activity of one package
type Intent struct {
	Action     string
	Package    string
	Data       string
	Type       string
	Categories []string
	Extras     map[string]string
	Flags      IntentFlags
}

// Has reports whether every bit of f is set
func (f IntentFlags) Has(flag IntentFlags) bool {
	return f&flag == flag
}
