package app

import "strings"

// Lang is a closed set of supported response languages.
type Lang string

const (
	LangEnglish Lang = "en"
	LangHindi   Lang = "hi"
)

func ParseLang(s string) (Lang, bool) {
	// Accept full locale tags like "hi-IN" and reduce to the base code.
	base := strings.ToLower(strings.SplitN(strings.TrimSpace(s), "-", 2)[0])
	switch Lang(base) {
	case LangEnglish:
		return LangEnglish, true
	case LangHindi:
		return LangHindi, true
	}
	return LangEnglish, false
}

func (l Lang) DisplayName() string {
	if l == LangHindi {
		return "हिन्दी"
	}
	return "English"
}

// T resolves a translation key, falling back to English per key so a
// partially translated set never produces an empty string.
func T(lang Lang, key string) string {
	if set, ok := translations[lang]; ok {
		if s, ok := set[key]; ok {
			return s
		}
	}
	return translations[LangEnglish][key]
}

var translations = map[Lang]map[string]string{
	LangEnglish: {
		"greeting":          "Hey there! I'm Mitra, your mind's friend. Thanks for stopping by. What's on your mind today? Feel free to share as much or as little as you'd like. 💙",
		"sendFailed":        "I'm sorry, something went wrong. Could you please try again?",
		"connectFailed":     "Sorry, I'm having trouble connecting right now. Please try again later.",
		"typeAMessage":      "Type a message...",
		"listening":         "Listening...",
		"thinking":          "Thinking...",
		"speechNoSpeech":    "I didn't catch that. Please try speaking again.",
		"speechNotAllowed":  "Microphone access is needed for voice input.",
		"speechGeneric":     "Sorry, voice input failed. Please try again.",
		"yourMindsFriend":   "A safe space to share whatever is on your mind.",
		"startConversation": "Start Conversation",
		"backToChat":        "Back to Chat",
		"newChat":           "New Chat",
		"clearAllHistory":   "Clear All History",
		"chatHistory":       "Chat History",
		"yourSafeSpace":     "Your Safe Space ✨",
		"journalPlaceholder": "Write down your thoughts, feelings, or anything on your mind. This is your private corner 💛",
		"saveReflection":    "Save My Reflection 📝",
		"journalSaved":      "Great job journaling ✨ Writing reduces stress by 30%.",
		"confirmDelete":     "Press again to delete",
		"howAreYouFeeling":  "How are you feeling right now?",
		"addANote":          "Add a note (optional)",
		"happy":             "Happy",
		"neutral":           "Neutral",
		"sad":               "Sad",
		"stressed":          "Stressed",
		"moodTrends":        "Mood Trends",
		"calendar":          "Calendar",
		"graph":             "Graph",
		"week":              "Week",
		"month":             "Month",
		"year":              "Year",
		"noMoodsLogged":     "No moods logged yet",
		"logMoodsToSeeTrends": "Log your moods after journaling to see trends here.",
		"takeADeepBreath":   "Take a Deep Breath",
		"breathingDescription": "A guided exercise to calm a racing mind. Follow the circle and the gentle tones.",
		"startBreathing":    "Start Breathing",
		"endSessionAndReturn": "End Session & Return",
		"getReady":          "Get ready...",
		"inhale":            "Breathe in...",
		"hold":              "Hold",
		"exhale":            "Breathe out...",
		"pause":             "Pause",
		"youAreNotAlone":    "You Are Not Alone",
		"immediateDangerWarning": "If you are in immediate danger, please call your local emergency services.",
		"crisisTitle":       "It sounds heavy right now",
		"crisisBody":        "You don't have to carry this alone. These people care about you and want to hear from you.",
		"close":             "Close",
		"helplineKiran":     "KIRAN Mental Health Helpline",
		"helplineKiranDesc": "24/7 national helpline for anxiety, stress and depression.",
		"helplineVandrevala": "Vandrevala Foundation",
		"helplineVandrevalaDesc": "Free, confidential support around the clock.",
		"helplineAasra":     "AASRA",
		"helplineAasraDesc": "Crisis intervention for the distressed and suicidal.",
		"helplineIcall":     "iCALL",
		"helplineIcallDesc": "Psychosocial counselling by trained professionals.",
	},
	LangHindi: {
		"greeting":          "नमस्ते! मैं मित्रा हूँ, आपके मन का दोस्त। आने के लिए धन्यवाद। आज आपके मन में क्या है? जितना चाहें, उतना साझा करें। 💙",
		"sendFailed":        "माफ़ कीजिए, कुछ गड़बड़ हो गई। क्या आप फिर से कोशिश कर सकते हैं?",
		"connectFailed":     "माफ़ कीजिए, अभी जुड़ने में दिक्कत हो रही है। कृपया बाद में फिर कोशिश करें।",
		"typeAMessage":      "संदेश लिखें...",
		"listening":         "सुन रहा हूँ...",
		"thinking":          "सोच रहा हूँ...",
		"speechNoSpeech":    "मैं सुन नहीं पाया। कृपया फिर से बोलें।",
		"speechNotAllowed":  "आवाज़ से लिखने के लिए माइक्रोफ़ोन की अनुमति चाहिए।",
		"speechGeneric":     "माफ़ कीजिए, आवाज़ से लिखना विफल रहा। फिर कोशिश करें।",
		"yourMindsFriend":   "अपने मन की बात कहने के लिए एक सुरक्षित जगह।",
		"startConversation": "बातचीत शुरू करें",
		"backToChat":        "चैट पर वापस जाएँ",
		"yourSafeSpace":     "आपकी अपनी जगह ✨",
		"journalPlaceholder": "अपने विचार और भावनाएँ यहाँ लिखें। यह आपका निजी कोना है 💛",
		"saveReflection":    "मेरी बात सहेजें 📝",
		"journalSaved":      "बहुत बढ़िया ✨ लिखने से तनाव कम होता है।",
		"confirmDelete":     "हटाने के लिए फिर दबाएँ",
		"howAreYouFeeling":  "अभी आप कैसा महसूस कर रहे हैं?",
		"addANote":          "एक नोट जोड़ें (वैकल्पिक)",
		"happy":             "खुश",
		"neutral":           "सामान्य",
		"sad":               "उदास",
		"stressed":          "तनाव में",
		"moodTrends":        "मनोदशा के रुझान",
		"takeADeepBreath":   "गहरी साँस लें",
		"startBreathing":    "साँस लेना शुरू करें",
		"endSessionAndReturn": "समाप्त करें और वापस जाएँ",
		"getReady":          "तैयार हो जाइए...",
		"inhale":            "साँस अंदर लें...",
		"hold":              "रोकें",
		"exhale":            "साँस बाहर छोड़ें...",
		"pause":             "विराम",
		"youAreNotAlone":    "आप अकेले नहीं हैं",
		"immediateDangerWarning": "तुरंत ख़तरे में हों तो कृपया स्थानीय आपातकालीन सेवा को कॉल करें।",
		"crisisTitle":       "अभी बहुत भारी लग रहा है",
		"crisisBody":        "आपको यह अकेले नहीं उठाना है। ये लोग आपकी परवाह करते हैं और आपसे बात करना चाहते हैं।",
		"close":             "बंद करें",
	},
}
