package i18n

import "fmt"

// EN is the English table.
var EN = Table{
	"DOWNLOAD_BUTTON": Text("Download 🦾"),
	"CUSTOMIZE_BUTTON": Text("Customize ✨"),
	"RUN_TOOL_BUTTON": Text("Run Tool 🚀"),
	"INSTALLING_BUTTON": Text("Installing..."),
	"READY_TO_RUN_BUTTON": Text("Ready to Run! 🔥"),
	"START_SCAN_RUN_BUTTON": Text("Start Scan/Run"),
	"PAUSE_BUTTON": Text("Pause"),
	"STOP_BUTTON": Text("Stop"),
	"FORCE_STOP_BUTTON": Text("Force Stop"),
	"VIEW_LOG_BUTTON": Text("View Log"),
	"BROWSE_FULL_RESULTS_BUTTON": Text("Browse Full Results"),
	"EXPORT_RESULTS_BUTTON": Text("Export Results"),
	"SAVE_TEMPLATE_BUTTON": Text("Save Template"),
	"IMPORT_EXPORT_CONFIG_BUTTON": Text("Import/Export Config"),
	"APPLY_PARAMS_BUTTON": Text("Apply & Run"),
	"SEND_MESSAGE_BUTTON": Text("Send 💬"),
	"ANALYZE_WITH_AI_BUTTON": Text("Analyze with AI 🧠"),

	"WELCOME_MESSAGE": Text("Welcome, Knoux Master! Ready to revolutionize your workflow?"),
	"TOOLTIP_TEXT": Text("Try me, ya knoux!"),
	"SUCCESS_TOAST": Text("Mission Accomplished, Script Lord! ✅"),
	"NO_ACTIVE_TOOLS_ALERT": Text("System idle, Commander. Bolster your arsenal in Settings. ⚙️"),
	"DASHBOARD_TITLE": Text("PLATFORMS - KNOX Elite Toolkit"),
	"DASHBOARD_SUBTITLE": Text("Browse a curated collection of powerful tools and utilities. Each rigorously vetted and optimized by Knoux experts for peak performance."),
	"CATEGORY_DETAIL_TITLE_PREFIX": Text("Top 20 Tools in"),
	"CATEGORY_DETAIL_TITLE_SUFFIX": Text("at your command 🔥 — Click to customize, run, and monitor in real-time."),
	"LIVE_OPERATIONS_TITLE": Text("KNOX Live Operations - Real-time Command Center 📡"),
	"LIVE_OPERATIONS_SUBTITLE": Text("Ultimate control. Monitor all running tasks and their live output. Track progress, take immediate action, and command your operations."),
	"FOOTER_TEXT_LEFT": Text("MAX KNOX PLUS - Power for Professionals 🦾 — All Rights Reserved."),
	"APP_VERSION": Func(func(p Params) string {
		return fmt.Sprintf("Version %s - Gemini Fusion", str(p, "version"))
	}),

	"STATUS_NOT_LOADED": Text("Not Loaded"),
	"STATUS_READY_TO_RUN": Text("Ready to Run"),
	"STATUS_RUNNING": Text("Running"),
	"STATUS_COMPLETED": Text("Completed"),
	"STATUS_ERROR": Text("Error"),
	"STATUS_LOADING": Text("Loading"),

	"TOOL_DESCRIPTION_PLACEHOLDER": Text("Professional-grade description of the tool's features and effective usage."),
	"TOOL_ADV_SETTINGS_TITLE": Text("Advanced Settings & Pro Configuration"),
	"TOOL_EXEC_OPTIONS_TITLE": Text("Dynamic Execution Options"),
	"TOOL_RESULTS_MGMT_TITLE": Text("Comprehensive Results Management"),
	"TOOL_PREVIEW_TITLE": Text("Tool Action Preview"),
	"TOOL_PREVIEW_SUB_TEXT": Text("Simplified visualization of the tool's mechanism or typical output."),
	"ADV_SETTINGS_FORM_TITLE_PREFIX": Text("Advanced Execution Settings for:"),
	"ADV_SETTINGS_TEMPLATE_SELECT": Text("-- Select Run Template --"),
	"ADV_SETTINGS_NO_PARAMS": Text("No customizable parameters for this template/tool."),
	"CHAT_INTERFACE_TITLE": Text("KNOX AI Chat (Powered by Gemini)"),
	"CHAT_INPUT_PLACEHOLDER": Text("Ask the AI genius..."),
	"AI_ANALYSIS_MODAL_TITLE": Text("AI Threat Analysis Report"),
	"AI_ANALYZING_TOAST": Text("Analyzing threats with Gemini AI..."),
	"AI_ANALYSIS_COMPLETE_TOAST": Text("AI Analysis Complete! View Report."),
	"AI_ANALYSIS_ERROR_TOAST": Text("AI Analysis Failed. Please try again."),
	"API_KEY_MISSING_ERROR": Text("Gemini API Key is missing. AI features will be unavailable. Please ensure 'API_KEY' environment variable is configured."),
	"AI_INIT_ERROR": Text("Error initializing Gemini AI. Features may be limited."),
	"AI_CHAT_ERROR": Text("Error communicating with Gemini AI."),
	"AI_CHAT_FAIL_MESSAGE": Text("Sorry, I encountered an error. Please try again."),
	"SWITCH_TO_LIGHT_MODE": Text("Switch to Light Mode"),
	"SWITCH_TO_DARK_MODE": Text("Switch to Dark Mode"),
	"SWITCH_TO_ARABIC": Text("Switch to Arabic"),
	"SWITCH_TO_ENGLISH": Text("Switch to English"),

	"OP_COL_TOOL": Text("Tool"),
	"OP_COL_TASK": Text("Operation/Task"),
	"OP_COL_STATUS": Text("Status"),
	"OP_COL_PROGRESS": Text("Progress Bar"),
	"OP_COL_LOGS": Text("Live Logs"),
	"OP_COL_TIME": Text("Start/End Time"),
	"OP_COL_ACTIONS": Text("Actions"),

	"KNOX_DEEP_SCAN_NAME": Text("KNOX Deep Scan"),
	"KNOX_DEEP_SCAN_DESC": Text("Full system heuristic and signature-based threat detection."),
	"KNOX_DEEP_SCAN_LONG_DESC": Text("KNOX Deep Scan employs advanced algorithms and a comprehensive threat database to meticulously examine your system for malware, suspicious activities, and potential vulnerabilities. It simulates a deep inspection of critical system areas, running processes, startup items, and file integrity. Results can be further analyzed by Gemini AI for enhanced insights."),
	"KNOX_DEEP_SCAN_INIT": Text("Initializing KNOX Deep Scan Engine..."),
	"KNOX_ALERT_TITLE": Text("KNOX Alert!"),
	"KNOX_ALERT_BODY_THREATS_DETECTED": Text("potential threats detected by KNOX Deep Scan. Review results."),
	"THREAT_DB_PROCESS_SCAN": Text("Scanning running processes..."),
	"THREAT_DB_STARTUP_SCAN": Text("Analyzing startup entries..."),
	"THREAT_DB_SIGNATURE_SCAN": Text("Performing file signature matching..."),
	"THREAT_DETECTED_PREFIX": Text("THREAT DETECTED:"),
	"THREAT_ANALYSIS_PROMPT_PREFIX": Text("Analyze the following potential security findings from a system scan. Provide a brief risk assessment, potential impact, and general mitigation advice for each. Format as a readable report:\n\n"),
	"THREAT_TYPE_PROCESS": Text("Potentially Malicious Process"),
	"THREAT_TYPE_STARTUP": Text("Suspicious Startup Item"),
	"THREAT_TYPE_SIGNATURE": Text("Malware Signature Match"),

	"EMAIL_BREACH_LOOKUP_NAME": Text("Email Breach Lookup"),
	"EMAIL_BREACH_LOOKUP_DESC": Text("Check if an email has been compromised in known data breaches."),
	"EMAIL_BREACH_LOOKUP_LONG_DESC": Text("Enter an email address to check against a database of known data breaches (simulated). This tool helps identify potential exposure of credentials or personal information. For real checks, use reputable services like Have I Been Pwned."),
	"EMAIL_BREACH_INPUT_LABEL": Text("Email Address to Check"),
	"EMAIL_BREACH_CHECK_BUTTON": Text("Check Email"),
	"EMAIL_BREACH_ANALYZING": Func(func(p Params) string {
		return fmt.Sprintf("Checking %s for breaches...", str(p, "email"))
	}),
	"EMAIL_BREACH_NO_BREACHES": Func(func(p Params) string {
		return fmt.Sprintf("No breaches found for %s in our simulated database.", str(p, "email"))
	}),
	"EMAIL_BREACH_FOUND": Func(func(p Params) string {
		return fmt.Sprintf("Found %s potential breach(es) involving %s. (Simulated details below)", str(p, "count"), str(p, "email"))
	}),

	"PRIVACY_TRACE_WIPER_NAME": Text("Privacy Trace Wiper"),
	"PRIVACY_TRACE_WIPER_DESC": Text("Simulates cleaning of browser history, cookies, and temporary files."),
	"PRIVACY_TRACE_WIPER_LONG_DESC": Text("This tool simulates the process of wiping digital footprints such as browser cache, cookies, history, temporary system files, and application logs to enhance your privacy. The actual deletion is simulated for safety in this web environment."),
	"PRIVACY_WIPE_TARGET_LABEL": Text("Select items to wipe:"),
	"PRIVACY_WIPE_OPTIONS_Browser_Cache": Text("Browser Cache"),
	"PRIVACY_WIPE_OPTIONS_Cookies": Text("Cookies"),
	"PRIVACY_WIPE_OPTIONS_History": Text("History"),
	"PRIVACY_WIPE_OPTIONS_Temp_Files": Text("Temp Files"),
	"PRIVACY_WIPE_OPTIONS_App_Logs": Text("App Logs"),
	"PRIVACY_WIPE_START_BUTTON": Text("Start Wiping Traces"),
	"PRIVACY_WIPING_LOG_PREFIX": Text("Wiping"),
	"PRIVACY_WIPE_COMPLETE": Text("Privacy trace wiping simulation complete."),

	"MALWARE_PROCESS_KILLER_NAME": Text("Malware Process Killer"),
	"MALWARE_PROCESS_KILLER_DESC": Text("Simulates identification and termination of suspicious background processes."),
	"MALWARE_PROCESS_KILLER_LONG_DESC": Text("This utility simulates scanning for and terminating processes that match signatures in the KNOX Threat DB or exhibit suspicious behavior. In a real environment, this would require administrative privileges. Here, actions are simulated."),
	"MALWARE_KILLER_SCAN_BUTTON": Text("Scan for Malicious Processes"),
	"MALWARE_KILLER_TERMINATE_BUTTON": Func(func(p Params) string {
		return fmt.Sprintf("Terminate %s Threat(s)", str(p, "count"))
	}),
	"MALWARE_KILLER_NO_THREATS": Text("No suspicious processes found (Simulated)."),
	"MALWARE_KILLER_PROCESS_FOUND": Func(func(p Params) string {
		return fmt.Sprintf("Suspicious process found: %s", str(p, "name"))
	}),
	"MALWARE_KILLER_TERMINATING": Func(func(p Params) string {
		return fmt.Sprintf("Simulating termination of %s...", str(p, "name"))
	}),
	"MALWARE_KILLER_TERMINATED": Func(func(p Params) string {
		return fmt.Sprintf("Process %s terminated (Simulated).", str(p, "name"))
	}),
	"NOTIFICATIONS_ENABLED_SUCCESS": Text("Desktop notifications enabled!"),
	"NOTIFICATIONS_ENABLED_WARN": Text("Desktop notifications denied. Some alerts might be missed."),

	"INSTALLING_BUTTON_FOR_TOOL": Func(func(p Params) string {
		return fmt.Sprintf("Installing %s...", str(p, "toolName"))
	}),
	"READY_TO_RUN_FOR_TOOL": Func(func(p Params) string {
		return fmt.Sprintf("%s is ready to run!", str(p, "toolName"))
	}),
	"CATEGORY_NOT_FOUND_MSG": Func(func(p Params) string {
		return fmt.Sprintf("Category \"%s\" not found.", str(p, "categoryIdValue"))
	}),
	"EXPLORING_CATEGORY_MSG": Func(func(p Params) string {
		return fmt.Sprintf("Exploring %s", str(p, "categoryName"))
	}),
	"RETRY_BUTTON": Text("Retry"),
	"RUN_AGAIN_BUTTON": Text("Run Again"),

	"Offensive Security Tools": Text("Offensive Security Tools"),
	"Developer Tools": Text("Developer Tools"),
	"Post-Format Utilities": Text("Post-Format Utilities"),
	"Bots & AI Models": Text("Bots & AI Models"),
	"Privacy": Text("Privacy"),
	"Updates": Text("Updates"),
	"Support": Text("Support"),
	"Settings": Text("Settings"),
}
