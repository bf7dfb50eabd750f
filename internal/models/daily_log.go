package models

// DailyLog is the record of one logical day. Its date is implicit from the
// map key or document id it is stored under.
type DailyLog struct {
	Vocab1Meaning  string `json:"vocab1Meaning"`
	Vocab1Word     string `json:"vocab1Word"`
	Vocab1Method   string `json:"vocab1Method"`
	Vocab2Meaning  string `json:"vocab2Meaning"`
	Vocab2Word     string `json:"vocab2Word"`
	Vocab2Method   string `json:"vocab2Method"`
	VocabDone      bool   `json:"vocabDone"`
	VocabTimestamp string `json:"vocabTimestamp,omitempty"`

	SpeakingTopic     string `json:"speakingTopic"`
	SpeakingVocab     string `json:"speakingVocab"`
	SpeakingDone      bool   `json:"speakingDone"`
	SpeakingTimestamp string `json:"speakingTimestamp,omitempty"`
	SpeakingDuration  int    `json:"speakingDuration"`

	ListeningTopic     string `json:"listeningTopic"`
	ListeningLink      string `json:"listeningLink"`
	ListeningVocab     string `json:"listeningVocab"`
	ListeningDone      bool   `json:"listeningDone"`
	ListeningTimestamp string `json:"listeningTimestamp,omitempty"`
	ListeningDuration  int    `json:"listeningDuration"`

	WritingContent   string `json:"writingContent"`
	WritingDone      bool   `json:"writingDone"`
	WritingTimestamp string `json:"writingTimestamp,omitempty"`
	WritingDuration  int    `json:"writingDuration"`

	TotalMoney   int `json:"totalMoney"`
	StudyMinutes int `json:"studyMinutes"`

	DailyCoins    int `json:"dailyCoins"`
	DailyGems     int `json:"dailyGems"`
	Game1Earnings int `json:"game1Earnings"`
	Game3Earnings int `json:"game3Earnings"`

	Challenge1Done   bool      `json:"challenge1Done"`
	Challenge2Done   bool      `json:"challenge2Done"`
	Challenge2Streak int       `json:"challenge2Streak"`
	Challenge2Words  [6]string `json:"challenge2Words"`
	Challenge3Done   bool      `json:"challenge3Done"`
}

// LogsMap maps a YYYY-MM-DD date key to that day's record.
type LogsMap map[string]DailyLog

// Clone returns a shallow copy that can be handed out without sharing the map.
func (m LogsMap) Clone() LogsMap {
	out := make(LogsMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Patch is a partial DailyLog. Nil fields are left untouched when applied.
// TotalMoney is derived and therefore not part of a patch.
type Patch struct {
	Vocab1Meaning  *string `json:"vocab1Meaning,omitempty"`
	Vocab1Word     *string `json:"vocab1Word,omitempty"`
	Vocab1Method   *string `json:"vocab1Method,omitempty"`
	Vocab2Meaning  *string `json:"vocab2Meaning,omitempty"`
	Vocab2Word     *string `json:"vocab2Word,omitempty"`
	Vocab2Method   *string `json:"vocab2Method,omitempty"`
	VocabDone      *bool   `json:"vocabDone,omitempty"`
	VocabTimestamp *string `json:"vocabTimestamp,omitempty"`

	SpeakingTopic     *string `json:"speakingTopic,omitempty"`
	SpeakingVocab     *string `json:"speakingVocab,omitempty"`
	SpeakingDone      *bool   `json:"speakingDone,omitempty"`
	SpeakingTimestamp *string `json:"speakingTimestamp,omitempty"`
	SpeakingDuration  *int    `json:"speakingDuration,omitempty"`

	ListeningTopic     *string `json:"listeningTopic,omitempty"`
	ListeningLink      *string `json:"listeningLink,omitempty"`
	ListeningVocab     *string `json:"listeningVocab,omitempty"`
	ListeningDone      *bool   `json:"listeningDone,omitempty"`
	ListeningTimestamp *string `json:"listeningTimestamp,omitempty"`
	ListeningDuration  *int    `json:"listeningDuration,omitempty"`

	WritingContent   *string `json:"writingContent,omitempty"`
	WritingDone      *bool   `json:"writingDone,omitempty"`
	WritingTimestamp *string `json:"writingTimestamp,omitempty"`
	WritingDuration  *int    `json:"writingDuration,omitempty"`

	StudyMinutes *int `json:"studyMinutes,omitempty"`

	DailyCoins    *int `json:"dailyCoins,omitempty"`
	DailyGems     *int `json:"dailyGems,omitempty"`
	Game1Earnings *int `json:"game1Earnings,omitempty"`
	Game3Earnings *int `json:"game3Earnings,omitempty"`

	Challenge1Done   *bool      `json:"challenge1Done,omitempty"`
	Challenge2Done   *bool      `json:"challenge2Done,omitempty"`
	Challenge2Streak *int       `json:"challenge2Streak,omitempty"`
	Challenge2Words  *[6]string `json:"challenge2Words,omitempty"`
	Challenge3Done   *bool      `json:"challenge3Done,omitempty"`
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}
