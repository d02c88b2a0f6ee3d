package rag

// stopwords are function words and bare time words that carry no retrieval
// signal. Keyword candidates matching any of these are dropped.
var stopwords = map[string]struct{}{
	"的": {}, "了": {}, "在": {}, "是": {}, "我": {}, "有": {}, "和": {},
	"就": {}, "不": {}, "人": {}, "都": {}, "一": {}, "一个": {}, "上": {},
	"也": {}, "很": {}, "到": {}, "说": {}, "要": {}, "去": {}, "你": {},
	"会": {}, "着": {}, "没有": {}, "看": {}, "好": {}, "自己": {}, "这": {},
	"吗": {}, "呢": {}, "啊": {}, "吧": {}, "今年": {}, "去年": {}, "前年": {},
	"月份": {}, "月": {}, "年": {}, "是不是": {}, "是否": {},
}

func isStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}
