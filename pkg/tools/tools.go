// Package tools defines the static catalog of AI content tools.
//
// Definitions are immutable data created at process start and looked up by
// Kind. The render policy for each tool is carried as data on the definition
// so presentation code never branches on tool identity.
package tools

import "fmt"

// Kind enumerates the tool catalog.
type Kind string

const (
	KindOptimizer Kind = "optimizer"
	KindHashtags  Kind = "hashtags"
	KindScript    Kind = "script"
	KindIdeas     Kind = "ideas"
	KindImage     Kind = "image"
	KindStore     Kind = "store"
	KindCode      Kind = "code"
	KindLanding   Kind = "landing"
)

// Render describes how a tool's result is presented.
type Render string

const (
	// RenderProse shows the raw result as markdown.
	RenderProse Render = "prose"
	// RenderHashtags lazily decodes hashtag buckets at display time,
	// falling back to markdown when decoding fails.
	RenderHashtags Render = "hashtags"
	// RenderCode extracts a fenced block; markup languages additionally
	// offer a live preview view.
	RenderCode Render = "code"
	// RenderImage shows the generated data URI.
	RenderImage Render = "image"
)

// Definition is a static tool descriptor.
type Definition struct {
	Kind             Kind
	Title            string
	Description      string
	InputLabel       string
	InputPlaceholder string
	Color            string
	// Model overrides the dispatcher's default text model when non-empty.
	Model  string
	Render Render

	// template renders the model-facing prompt. Nil means the user input
	// is passed through unchanged (image tools).
	template func(input string) string
}

// Prompt renders the model-facing prompt for the given user input.
func (d Definition) Prompt(input string) string {
	if d.template == nil {
		return input
	}
	return d.template(input)
}

// Catalog returns the full tool catalog in display order.
func Catalog() []Definition {
	return catalog
}

// Lookup returns the definition for a kind.
func Lookup(kind Kind) (Definition, bool) {
	for _, d := range catalog {
		if d.Kind == kind {
			return d, true
		}
	}
	return Definition{}, false
}

var catalog = []Definition{
	{
		Kind:             KindOptimizer,
		Title:            "محسن الوصف والعنوان",
		Description:      "حسن وصفك لترتيب أكبر في نتائج البحث",
		InputLabel:       "عن ماذا يتحدث الفيديو الخاص بك؟",
		InputPlaceholder: "مثال: روتين صباحي، شرح البرمجة للمبتدئين...",
		Color:            "blue",
		Render:           RenderProse,
		template: func(input string) string {
			return fmt.Sprintf(`قم بدور خبير SEO ومنشئ محتوى على يوتيوب.
المهمة: اكتب 5 عناوين جذابة (Click-worthy) ووصف فيديو محسن لمحركات البحث (SEO) بناءً على الموضوع التالي.
الموضوع: %s

الناتج يجب أن يكون باللغة العربية ومنسق بشكل جميل.
تنسيق الناتج:
**العناوين المقترحة:**
1. ...
2. ...

**الوصف المقترح:**
...`, input)
		},
	},
	{
		Kind:             KindHashtags,
		Title:            "مولد هاشتاقات",
		Description:      "ابحث عن الهاشتاقات الشائعة والمتخصصة لزيادة الوصول والمشاركة",
		InputLabel:       "ما هو مجال محتواك؟",
		InputPlaceholder: "مثال: طبخ، تقنية، رياضة...",
		Color:            "indigo",
		Render:           RenderHashtags,
		template: func(input string) string {
			return fmt.Sprintf(`قم بدور خبير تسويق عبر وسائل التواصل الاجتماعي.
المهمة: استخرج قائمة بأفضل 30 هاشتاق (Hashtags) نشط وترند حالياً للمجال التالي: "%s"

المخرجات المطلوبة:
يجب أن يكون الرد بصيغة JSON فقط (بدون أي نصوص إضافية أو علامات markdown) بالشكل التالي:
{
  "high": ["#tag1", "#tag2", ...],
  "medium": ["#tag3", "#tag4", ...],
  "niche": ["#tag5", "#tag6", ...]
}

حيث:
- high: هاشتاقات عالية المنافسة (High Volume).
- medium: هاشتاقات متوسطة المنافسة.
- niche: هاشتاقات دقيقة ومتخصصة جداً.`, input)
		},
	},
	{
		Kind:             KindScript,
		Title:            "كاتب سكريبت ريلز",
		Description:      "اكتب سكريبت إبداعي للريلز وتيك توك",
		InputLabel:       "ما هي فكرة الفيديو؟",
		InputPlaceholder: "مثال: 5 نصائح لتصوير فيديو احترافي...",
		Color:            "purple",
		Render:           RenderProse,
		template: func(input string) string {
			return fmt.Sprintf(`قم بدور كاتب سكريبتات محترف لمنصات الفيديو القصيرة (TikTok, Reels, Shorts).
المهمة: اكتب سكريبت فيديو قصير مدته 60 ثانية للموضوع التالي.
الموضوع: %s

السكريبت يجب أن يحتوي على:
1. خطاف بصري/سمعي (Hook) في أول 3 ثواني.
2. المحتوى القيم (Value) بشكل مختصر وسريع.
3. دعوة لاتخاذ إجراء (Call to Action).

استخدم لهجة عامية بيضاء أو فصحى بسيطة وجذابة.`, input)
		},
	},
	{
		Kind:             KindIdeas,
		Title:            "مولد أفكار المحتوى",
		Description:      "احصل على أفكار إبداعية لجمهورك",
		InputLabel:       "من هو جمهورك المستهدف؟",
		InputPlaceholder: "مثال: طلاب الجامعات، المهتمين باللياقة البدنية...",
		Color:            "yellow",
		Render:           RenderProse,
		template: func(input string) string {
			return fmt.Sprintf(`قم بدور استراتيجي محتوى.
المهمة: اقترح 10 أفكار فيديوهات مبتكرة وغير تقليدية للجمهور المستهدف التالي.
الجمهور/المجال: %s

لكل فكرة، اكتب سطر واحد يشرح لماذا ستنتشر هذه الفكرة (Viral Potential).`, input)
		},
	},
	{
		Kind:             KindImage,
		Title:            "مصمم الصور (AI)",
		Description:      "حول كلماتك إلى لوحات فنية مذهلة",
		InputLabel:       "تخيل الصورة واكتب وصفها",
		InputPlaceholder: "مثال: رائد فضاء يركب حصاناً على المريخ بأسلوب سايبر بانك، إضاءة نيون...",
		Color:            "rose",
		Render:           RenderImage,
		// Image prompts go to the model unchanged.
		template: nil,
	},
	{
		Kind:             KindStore,
		Title:            "مخطط المتجر الإلكتروني",
		Description:      "خطة متكاملة لإطلاق متجرك ومنتجاتك الرقمية",
		InputLabel:       "ما الذي تريد بيعه؟",
		InputPlaceholder: "مثال: كورسات مونتاج، قوالب تصميم، استشارات...",
		Color:            "emerald",
		Render:           RenderProse,
		template: func(input string) string {
			return fmt.Sprintf(`قم بدور مستشار تجارة إلكترونية لصناع المحتوى.
المهمة: ضع خطة عملية لإطلاق متجر إلكتروني يبيع ما يلي: %s

الخطة يجب أن تشمل:
1. تسعير مقترح للمنتجات.
2. صفحات المتجر الأساسية ومحتواها.
3. خطة تسويق عبر حسابات صاحب المتجر.

الناتج باللغة العربية وبتنسيق نقاط واضح.`, input)
		},
	},
	{
		Kind:             KindCode,
		Title:            "مولد المواقع والأكواد",
		Description:      "حول فكرتك إلى موقع أو كود جاهز",
		InputLabel:       "صف الموقع أو الكود الذي تحتاجه",
		InputPlaceholder: "مثال: صفحة معرض أعمال لمصور فوتوغرافي...",
		Color:            "slate",
		Model:            "gemini-3-pro-preview",
		Render:           RenderCode,
		template: func(input string) string {
			return fmt.Sprintf(`قم بدور مطور ويب خبير.
المهمة: اكتب الكود الكامل للمطلوب التالي: %s

قواعد الإخراج:
- أعد الكود داخل كتلة واحدة محاطة بثلاث علامات اقتباس خلفية مع اسم اللغة.
- إذا كان المطلوب موقعاً، أعد ملف HTML واحد كامل يتضمن CSS و JavaScript داخلياً.
- بدون أي شرح خارج كتلة الكود.`, input)
		},
	},
	{
		Kind:             KindLanding,
		Title:            "مولد صفحات الهبوط",
		Description:      "صفحة هبوط تسويقية جاهزة للنشر",
		InputLabel:       "ما هو المنتج أو الخدمة؟",
		InputPlaceholder: "مثال: كورس تصوير بالجوال للمبتدئين...",
		Color:            "orange",
		Model:            "gemini-3-pro-preview",
		Render:           RenderCode,
		template: func(input string) string {
			return fmt.Sprintf(`قم بدور مصمم صفحات هبوط (Landing Pages) محترف.
المهمة: اكتب صفحة هبوط تسويقية كاملة للمنتج/الخدمة التالية: %s

قواعد الإخراج:
- ملف HTML واحد كامل داخل كتلة كود محاطة بثلاث علامات اقتباس خلفية مع الوسم html.
- تصميم متجاوب مع الجوال، نصوص عربية مقنعة، وزر دعوة لاتخاذ إجراء واضح.
- بدون أي شرح خارج كتلة الكود.`, input)
		},
	},
}
