package output

import (
	"golang.org/x/text/language"
)

var supported = []language.Tag{language.English, language.Chinese}

var matcher = language.NewMatcher(supported)

var current = language.English

// SetLang switches the output language to the closest supported match.
func SetLang(tag language.Tag) {
	_, index, _ := matcher.Match(tag)
	current = supported[index]
}

// Translate returns the message for key in the current language, falling
// back to English and finally to the key itself.
func Translate(key string) string {
	if current == language.Chinese {
		if msg, ok := chinese[key]; ok {
			return msg
		}
	}
	if msg, ok := english[key]; ok {
		return msg
	}
	return key
}

// Translations returns the full message table for the current language.
// Keys missing a translation fall back to English.
func Translations() map[string]string {
	table := make(map[string]string, len(english))
	for key, msg := range english {
		table[key] = msg
	}
	if current == language.Chinese {
		for key, msg := range chinese {
			table[key] = msg
		}
	}
	return table
}

var english = map[string]string{
	"launcher.description": "Launcher for running vision control scripts inside the simulation platform",
	"launcher.warning":     "Warning",
	"launcher.debug":       "Debug",
	"launcher.error":       "Error",
	"launcher.tip":         "Tip",

	"run":         "Forward a command line to the resolved interpreter",
	"batch":       "Run batch test rounds and collect statistics",
	"report":      "Generate a markdown report from batch results",
	"python":      "Inspect available Python interpreters",
	"config":      "Manage the workspace configuration",
	"update":      "Manage launcher updates",
	"completions": "Generate shell completions",
	"about":       "Show launcher information",

	"arg.verbosity": "Output verbosity",
	"arg.dir":       "Workspace directory",
	"arg.nocolor":   "Disable colored output",
	"arg.lang":      "Output language (en, zh)",

	"run.interpreter.venv":   "Using virtual environment interpreter: %s",
	"run.interpreter.system": "Virtual environment not found, using system interpreter: %s",
	"run.launching":          "Launching: %s",

	"batch.session":  "Batch session %s",
	"batch.task":     "Task %d (%d rounds)",
	"batch.progress": "rounds",
	"batch.saved":    "Results saved to %s",

	"report.generated": "Report generated: %s",
	"report.csv":       "CSV exported: %s",

	"python.table.path":    "Path",
	"python.table.source":  "Source",
	"python.table.version": "Version",
	"python.none":          "No Python interpreters found",
	"python.check.ok":      "Interpreter %s satisfies %s (found %s)",

	"config.updated": "Configuration updated",

	"update.check":    "Check for available updates",
	"update.download": "Download and install available updates",
	"update.info":     "Show current version information",

	"tip.internet": "Check your internet connection",
	"tip.cache":    "A remote resource could not be refreshed and no cached copy exists",
	"tip.python":   "Install Python or create a virtual environment in the workspace",
}

var chinese = map[string]string{
	"launcher.description": "用于在仿真平台中运行视觉控制脚本的启动器",
	"launcher.warning":     "警告",
	"launcher.debug":       "调试",
	"launcher.error":       "错误",
	"launcher.tip":         "提示",

	"run":         "将命令行转发给解析到的解释器",
	"batch":       "运行批量测试并收集统计数据",
	"report":      "根据批量测试结果生成 Markdown 报告",
	"python":      "查看可用的 Python 解释器",
	"config":      "管理工作区配置",
	"update":      "管理启动器更新",
	"completions": "生成 shell 补全",
	"about":       "显示启动器信息",

	"arg.verbosity": "输出详细程度",
	"arg.dir":       "工作区目录",
	"arg.nocolor":   "禁用彩色输出",
	"arg.lang":      "输出语言 (en, zh)",

	"run.interpreter.venv":   "使用虚拟环境解释器: %s",
	"run.interpreter.system": "未找到虚拟环境，使用系统解释器: %s",
	"run.launching":          "启动: %s",

	"batch.session":  "批量测试会话 %s",
	"batch.task":     "Task %d（%d 轮）",
	"batch.progress": "轮次",
	"batch.saved":    "结果已保存到 %s",

	"report.generated": "报告已生成: %s",
	"report.csv":       "CSV 已导出: %s",

	"python.table.path":    "路径",
	"python.table.source":  "来源",
	"python.table.version": "版本",
	"python.none":          "未找到 Python 解释器",
	"python.check.ok":      "解释器 %s 满足 %s（检测到 %s）",

	"config.updated": "配置已更新",

	"update.check":    "检查可用更新",
	"update.download": "下载并安装可用更新",
	"update.info":     "显示当前版本信息",

	"tip.internet": "请检查网络连接",
	"tip.cache":    "远程资源无法刷新且没有缓存副本",
	"tip.python":   "请安装 Python 或在工作区中创建虚拟环境",
}
