package live

// Tone is the user-selectable voice character of the assistant. Each tone
// is bound to one fixed prebuilt voice name on the backend.
type Tone string

const (
	ToneCalm   Tone = "calm"
	ToneBright Tone = "bright"
	ToneDeep   Tone = "deep"
)

// DefaultTone is used when no tone has been chosen.
const DefaultTone = ToneCalm

var toneVoices = map[Tone]string{
	ToneCalm:   "Zephyr",
	ToneBright: "Puck",
	ToneDeep:   "Charon",
}

// Voice returns the backend voice name for the tone. Unknown tones map to
// the default tone's voice.
func (t Tone) Voice() string {
	if v, ok := toneVoices[t]; ok {
		return v
	}
	return toneVoices[DefaultTone]
}

// Valid reports whether t is one of the three supported tones.
func (t Tone) Valid() bool {
	_, ok := toneVoices[t]
	return ok
}

// Persona is the fixed system instruction establishing the assistant's
// identity and language.
const Persona = "أنت المساعد الصوتي لمنصة InfluTools، مساعد ودود لصناع المحتوى. " +
	"تحدث بالعربية بجمل قصيرة وواضحة، وأجب عن أسئلة صناعة المحتوى، " +
	"الهاشتاقات، أفكار الفيديوهات، وتحسين العناوين."
