// Package serialstudio builds and maintains a Serial Studio project JSON
// document from a dashboard definition. The document is constructed once;
// afterwards only dataset "value" leaves change, driven by a precomputed
// slot table, and the result is serialized wrapped in the comment-style
// delimiters Serial Studio expects on a network socket.
package serialstudio

// Document is the full Serial Studio project tree. Field order matches the
// order Serial Studio writes its own project files in, so diffs against
// exported projects stay readable.
type Document struct {
	Title                 string          `json:"title"`
	Actions               []ActionNode    `json:"actions"`
	Checksum              string          `json:"checksum"`
	Decoder               int             `json:"decoder"`
	HexadecimalDelimiters bool            `json:"hexadecimalDelimiters"`
	DashboardLayout       DashboardLayout `json:"dashboardLayout"`
	Groups                []GroupNode     `json:"groups"`
}

// DashboardLayout mirrors Serial Studio's layout block; this generator
// always requests auto layout with no pinned window order.
type DashboardLayout struct {
	AutoLayout  bool     `json:"autoLayout"`
	WindowOrder []string `json:"windowOrder"`
}

// ActionNode is one command button in the document.
type ActionNode struct {
	AutoExecuteOnConnect bool   `json:"autoExecuteOnConnect"`
	Binary               bool   `json:"binary"`
	EOL                  string `json:"eol"`
	Icon                 string `json:"icon"`
	TimerIntervalMs      int    `json:"timerIntervalMs"`
	TimerMode            int    `json:"timerMode"`
	Title                string `json:"title"`
	TxData               string `json:"txData"`
}

// GroupNode is one dataset group in the document.
type GroupNode struct {
	Title    string        `json:"title"`
	Widget   string        `json:"widget"`
	Datasets []DatasetNode `json:"datasets"`
}

// DatasetNode is one data channel in the document. Value is the only field
// that changes after construction.
type DatasetNode struct {
	AlarmEnabled    bool    `json:"alarmEnabled"`
	AlarmHigh       float64 `json:"alarmHigh"`
	AlarmLow        float64 `json:"alarmLow"`
	FFT             bool    `json:"fft"`
	FFTMax          int     `json:"fftMax"`
	FFTMin          int     `json:"fftMin"`
	FFTSamples      int     `json:"fftSamples"`
	FFTSamplingRate int     `json:"fftSamplingRate"`
	Graph           bool    `json:"graph"`
	Index           int     `json:"index"`
	LED             bool    `json:"led"`
	LEDHigh         int     `json:"ledHigh"`
	Log             bool    `json:"log"`
	OverviewDisplay bool    `json:"overviewDisplay"`
	PlotMax         float64 `json:"plotMax"`
	PlotMin         float64 `json:"plotMin"`
	Title           string  `json:"title"`
	Units           string  `json:"units"`
	Value           string  `json:"value"`
	Widget          string  `json:"widget"`
	WidgetMax       float64 `json:"widgetMax"`
	WidgetMin       float64 `json:"widgetMin"`
	XAxis           int     `json:"xAxis"`
}
