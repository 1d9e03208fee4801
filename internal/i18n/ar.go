package i18n

import "fmt"

// AR is the Arabic table. Keys mirror EN.
var AR = Table{
	"DOWNLOAD_BUTTON": Text("حمّلها ياباشا 🦾"),
	"CUSTOMIZE_BUTTON": Text("فصّل الشغل ✨"),
	"RUN_TOOL_BUTTON": Text("شغل الأداة 🚀"),
	"INSTALLING_BUTTON": Text("جاري التحميل..."),
	"READY_TO_RUN_BUTTON": Text("جاهزة للتشغيل! 🔥"),
	"START_SCAN_RUN_BUTTON": Text("بدء فحص/تشغيل"),
	"PAUSE_BUTTON": Text("إيقاف مؤقت"),
	"STOP_BUTTON": Text("إيقاف"),
	"FORCE_STOP_BUTTON": Text("إيقاف إجباري"),
	"VIEW_LOG_BUTTON": Text("عرض السجل"),
	"BROWSE_FULL_RESULTS_BUTTON": Text("استعراض النتائج الكاملة"),
	"EXPORT_RESULTS_BUTTON": Text("تصدير النتائج"),
	"SAVE_TEMPLATE_BUTTON": Text("حفظ القالب"),
	"IMPORT_EXPORT_CONFIG_BUTTON": Text("استيراد/تصدير الإعدادات"),
	"APPLY_PARAMS_BUTTON": Text("طبّق وشغّل"),
	"SEND_MESSAGE_BUTTON": Text("أرسل 💬"),
	"ANALYZE_WITH_AI_BUTTON": Text("تحليل بواسطة AI 🧠"),

	"WELCOME_MESSAGE": Text("أهلاً بك يا سيد نوكس! هل أنت مستعد لإحداث ثورة في سير عملك؟"),
	"TOOLTIP_TEXT": Text("جرّبني يا نوكس!"),
	"SUCCESS_TOAST": Text("بيضتها يا سيد السكربتات! ✅"),
	"NO_ACTIVE_TOOLS_ALERT": Text("عزوبية يا خوي؟ نظامك هادئ للغاية. أضف المزيد من القوة لأرسنالك في الإعدادات. ⚙️"),
	"DASHBOARD_TITLE": Text("المنصات - ساحة أدوات KNOX الراقية."),
	"DASHBOARD_SUBTITLE": Text("تصفح مجموعة منتقاة بعناية فائقة لأقوى الأدوات والمرافق عبر فئات مختلفة. كل أداة تم فحصها، تحسينها، وتهيئتها من قبل خبراء Knoux لتمنحك الأداء الأمثل والكفاءة القصوى."),
	"CATEGORY_DETAIL_TITLE_PREFIX": Text("أقوى 20 برنامج في عالم"),
	"CATEGORY_DETAIL_TITLE_SUFFIX": Text("جمعتهالك عالبارد 🔥 — اضغط على كل أداة لتخصيصها وتشغيلها ومراقبتها في الوقت الفعلي."),
	"LIVE_OPERATIONS_TITLE": Text("عمليات KNOX الجارية - تقرير فوري، تفاعل مطلق 📡"),
	"LIVE_OPERATIONS_SUBTITLE": Text("شاشة التحكم المطلقة. شاهد جميع مهامك قيد التشغيل ونتائجها المباشرة. تتبع التقدم، قم بالإجراءات الفورية، وتحكم بالكامل في عملياتك من مكان واحد."),
	"FOOTER_TEXT_LEFT": Text("MAX KNOX PLUS - قوة للمحترفين 🦾 — كل الحقوق محفوظة."),
	"APP_VERSION": Func(func(p Params) string {
		return fmt.Sprintf("الإصدار %s - دمج Gemini", str(p, "version"))
	}),

	"STATUS_NOT_LOADED": Text("غير محملة"),
	"STATUS_READY_TO_RUN": Text("جاهزة للتشغيل"),
	"STATUS_RUNNING": Text("قيد التشغيل"),
	"STATUS_COMPLETED": Text("تم الانتهاء"),
	"STATUS_ERROR": Text("خطأ"),
	"STATUS_LOADING": Text("جاري التحميل"),

	"TOOL_DESCRIPTION_PLACEHOLDER": Text("وصف تفصيلي احترافي لميزات الأداة وكيفية استخدامها بفعالية."),
	"TOOL_ADV_SETTINGS_TITLE": Text("إعدادات متقدمة وتكوين احترافي"),
	"TOOL_EXEC_OPTIONS_TITLE": Text("خيارات التشغيل الفعالة"),
	"TOOL_RESULTS_MGMT_TITLE": Text("إدارة النتائج الشاملة"),
	"TOOL_PREVIEW_TITLE": Text("معاينة عمل الأداة"),
	"TOOL_PREVIEW_SUB_TEXT": Text("تصور مبسط لآلية عمل الأداة أو مخرجاتها النموذجية."),
	"ADV_SETTINGS_FORM_TITLE_PREFIX": Text("إعدادات التشغيل المتقدمة لـ:"),
	"ADV_SETTINGS_TEMPLATE_SELECT": Text("-- اختر قالب تشغيل --"),
	"ADV_SETTINGS_NO_PARAMS": Text("لا توجد معلمات قابلة للتخصيص لهذا القالب/الأداة."),
	"CHAT_INTERFACE_TITLE": Text("دردشة KNOX AI (مدعومة بـ Gemini)"),
	"CHAT_INPUT_PLACEHOLDER": Text("اسأل عبقري الذكاء الاصطناعي..."),
	"AI_ANALYSIS_MODAL_TITLE": Text("تقرير تحليل التهديدات بالذكاء الاصطناعي"),
	"AI_ANALYZING_TOAST": Text("جاري تحليل التهديدات بواسطة Gemini AI..."),
	"AI_ANALYSIS_COMPLETE_TOAST": Text("اكتمل تحليل AI! عرض التقرير."),
	"AI_ANALYSIS_ERROR_TOAST": Text("فشل تحليل AI. حاول مرة أخرى."),
	"API_KEY_MISSING_ERROR": Text("مفتاح Gemini API غير موجود. ميزات الذكاء الاصطناعي ستكون معطلة. يرجى التأكد من تكوين متغير البيئة 'API_KEY' بشكل صحيح."),
	"AI_INIT_ERROR": Text("خطأ في تهيئة Gemini AI. قد تكون الميزات محدودة."),
	"AI_CHAT_ERROR": Text("خطأ في الاتصال بـ Gemini AI."),
	"AI_CHAT_FAIL_MESSAGE": Text("عذرًا، واجهت خطأ. حاول مرة اخرى."),
	"SWITCH_TO_LIGHT_MODE": Text("التبديل إلى الوضع الفاتح"),
	"SWITCH_TO_DARK_MODE": Text("التبديل إلى الوضع الداكن"),
	"SWITCH_TO_ARABIC": Text("التبديل إلى اللغة العربية"),
	"SWITCH_TO_ENGLISH": Text("التبديل إلى اللغة الإنجليزية"),

	"OP_COL_TOOL": Text("الأداة"),
	"OP_COL_TASK": Text("العملية/المهمة"),
	"OP_COL_STATUS": Text("الحالة"),
	"OP_COL_PROGRESS": Text("شريط التقدم"),
	"OP_COL_LOGS": Text("السجلات الحية"),
	"OP_COL_TIME": Text("وقت البدء/الانتهاء"),
	"OP_COL_ACTIONS": Text("الإجراءات"),

	"KNOX_DEEP_SCAN_NAME": Text("KNOX Deep Scan"),
	"KNOX_DEEP_SCAN_DESC": Text("فحص شامل للنظام قائم على الاستدلال والتوقيعات لكشف التهديدات."),
	"KNOX_DEEP_SCAN_LONG_DESC": Text("يستخدم KNOX Deep Scan خوارزميات متقدمة وقاعدة بيانات شاملة للتهديدات لفحص نظامك بدقة بحثًا عن البرامج الضارة والأنشطة المشبوهة ونقاط الضعف المحتملة. يحاكي فحصًا عميقًا لمناطق النظام الحيوية والعمليات قيد التشغيل وعناصر بدء التشغيل وسلامة الملفات. يمكن تحليل النتائج بواسطة Gemini AI للحصول على رؤى معززة."),
	"KNOX_DEEP_SCAN_INIT": Text("جاري تهيئة محرك KNOX Deep Scan..."),
	"KNOX_ALERT_TITLE": Text("تنبيه KNOX!"),
	"KNOX_ALERT_BODY_THREATS_DETECTED": Text("تهديدات محتملة تم اكتشافها بواسطة KNOX Deep Scan. راجع النتائج."),
	"THREAT_DB_PROCESS_SCAN": Text("فحص العمليات قيد التشغيل..."),
	"THREAT_DB_STARTUP_SCAN": Text("تحليل إدخالات بدء التشغيل..."),
	"THREAT_DB_SIGNATURE_SCAN": Text("مطابقة توقيعات الملفات..."),
	"THREAT_DETECTED_PREFIX": Text("تم اكتشاف تهديد:"),
	"THREAT_ANALYSIS_PROMPT_PREFIX": Text("حلل نتائج الفحص الأمني المحتملة التالية. قدم تقييمًا موجزًا للمخاطر، والتأثير المحتمل، ونصائح عامة للتخفيف لكل منها. نسقها كتقرير قابل للقراءة:\n\n"),
	"THREAT_TYPE_PROCESS": Text("عملية قد تكون ضارة"),
	"THREAT_TYPE_STARTUP": Text("عنصر بدء تشغيل مشبوه"),
	"THREAT_TYPE_SIGNATURE": Text("مطابقة توقيع برنامج ضار"),

	"EMAIL_BREACH_LOOKUP_NAME": Text("فحص اختراق البريد الإلكتروني"),
	"EMAIL_BREACH_LOOKUP_DESC": Text("تحقق مما إذا كان بريد إلكتروني قد تم اختراقه في تسريبات بيانات معروفة."),
	"EMAIL_BREACH_LOOKUP_LONG_DESC": Text("أدخل عنوان بريد إلكتروني للتحقق منه مقابل قاعدة بيانات لتسريبات البيانات المعروفة (محاكاة). تساعد هذه الأداة في تحديد التعرض المحتمل لبيانات الاعتماد أو المعلومات الشخصية. لإجراء عمليات تحقق حقيقية، استخدم خدمات موثوقة مثل Have I Been Pwned."),
	"EMAIL_BREACH_INPUT_LABEL": Text("البريد الإلكتروني المراد فحصه"),
	"EMAIL_BREACH_CHECK_BUTTON": Text("فحص البريد"),
	"EMAIL_BREACH_ANALYZING": Func(func(p Params) string {
		return fmt.Sprintf("جاري فحص %s بحثًا عن اختراقات...", str(p, "email"))
	}),
	"EMAIL_BREACH_NO_BREACHES": Func(func(p Params) string {
		return fmt.Sprintf("لم يتم العثور على اختراقات لـ %s في قاعدة بياناتنا المحاكاة.", str(p, "email"))
	}),
	"EMAIL_BREACH_FOUND": Func(func(p Params) string {
		return fmt.Sprintf("تم العثور على %s اختراق(اختراقات) محتمل(ة) متعلق(ة) بـ %s. (تفاصيل محاكاة أدناه)", str(p, "count"), str(p, "email"))
	}),

	"PRIVACY_TRACE_WIPER_NAME": Text("ماسح آثار الخصوصية"),
	"PRIVACY_TRACE_WIPER_DESC": Text("يحاكي تنظيف سجل المتصفح، ملفات تعريف الارتباط، والملفات المؤقتة."),
	"PRIVACY_TRACE_WIPER_LONG_DESC": Text("تحاكي هذه الأداة عملية مسح البصمات الرقمية مثل ذاكرة التخزين المؤقت للمتصفح، ملفات تعريف الارتباط، السجل، ملفات النظام المؤقتة، وسجلات التطبيقات لتعزيز خصوصيتك. الحذف الفعلي محاكى للسلامة في بيئة الويب هذه."),
	"PRIVACY_WIPE_TARGET_LABEL": Text("اختر العناصر المراد مسحها:"),
	"PRIVACY_WIPE_OPTIONS_Browser_Cache": Text("ذاكرة المتصفح المؤقتة"),
	"PRIVACY_WIPE_OPTIONS_Cookies": Text("ملفات تعريف الارتباط"),
	"PRIVACY_WIPE_OPTIONS_History": Text("السجل"),
	"PRIVACY_WIPE_OPTIONS_Temp_Files": Text("الملفات المؤقتة"),
	"PRIVACY_WIPE_OPTIONS_App_Logs": Text("سجلات التطبيقات"),
	"PRIVACY_WIPE_START_BUTTON": Text("بدء مسح الآثار"),
	"PRIVACY_WIPING_LOG_PREFIX": Text("جاري مسح"),
	"PRIVACY_WIPE_COMPLETE": Text("اكتملت محاكاة مسح آثار الخصوصية."),

	"MALWARE_PROCESS_KILLER_NAME": Text("قاتل العمليات الخبيثة"),
	"MALWARE_PROCESS_KILLER_DESC": Text("يحاكي تحديد وإنهاء العمليات المشبوهة في الخلفية."),
	"MALWARE_PROCESS_KILLER_LONG_DESC": Text("تحاكي هذه الأداة فحص وإنهاء العمليات التي تطابق التوقيعات في قاعدة بيانات تهديدات KNOX أو تظهر سلوكًا مشبوهًا. في بيئة حقيقية، يتطلب هذا صلاحيات إدارية. هنا، يتم محاكاة الإجراءات."),
	"MALWARE_KILLER_SCAN_BUTTON": Text("فحص العمليات الخبيثة"),
	"MALWARE_KILLER_TERMINATE_BUTTON": Func(func(p Params) string {
		return fmt.Sprintf("إنهاء %s تهديد(ات)", str(p, "count"))
	}),
	"MALWARE_KILLER_NO_THREATS": Text("لم يتم العثور على عمليات مشبوهة (محاكاة)."),
	"MALWARE_KILLER_PROCESS_FOUND": Func(func(p Params) string {
		return fmt.Sprintf("تم العثور على عملية مشبوهة: %s", str(p, "name"))
	}),
	"MALWARE_KILLER_TERMINATING": Func(func(p Params) string {
		return fmt.Sprintf("محاكاة إنهاء %s...", str(p, "name"))
	}),
	"MALWARE_KILLER_TERMINATED": Func(func(p Params) string {
		return fmt.Sprintf("تم إنهاء العملية %s (محاكاة).", str(p, "name"))
	}),
	"NOTIFICATIONS_ENABLED_SUCCESS": Text("تم تفعيل إشعارات سطح المكتب!"),
	"NOTIFICATIONS_ENABLED_WARN": Text("تم رفض إشعارات سطح المكتب. قد تفوتك بعض التنبيهات."),

	"INSTALLING_BUTTON_FOR_TOOL": Func(func(p Params) string {
		return fmt.Sprintf("جاري تحميل %s...", str(p, "toolName"))
	}),
	"READY_TO_RUN_FOR_TOOL": Func(func(p Params) string {
		return fmt.Sprintf("%s جاهزة للتشغيل!", str(p, "toolName"))
	}),
	"CATEGORY_NOT_FOUND_MSG": Func(func(p Params) string {
		return fmt.Sprintf("الفئة \"%s\" غير موجودة.", str(p, "categoryIdValue"))
	}),
	"EXPLORING_CATEGORY_MSG": Func(func(p Params) string {
		return fmt.Sprintf("استكشاف %s", str(p, "categoryName"))
	}),
	"RETRY_BUTTON": Text("إعادة المحاولة"),
	"RUN_AGAIN_BUTTON": Text("تشغيل مرة أخرى"),

	"Offensive Security Tools": Text("أدوات الأمن الهجومي"),
	"Developer Tools": Text("أدوات المطورين"),
	"Post-Format Utilities": Text("أدوات ما بعد التهيئة"),
	"Bots & AI Models": Text("الروبوتات ونماذج الذكاء الاصطناعي"),
	"Privacy": Text("الخصوصية"),
	"Updates": Text("التحديثات"),
	"Support": Text("الدعم"),
	"Settings": Text("الإعدادات"),
}
