package rag

// qaPrompt instructs the model to answer strictly from retrieved diary
// content. Placeholders are filled via fmt.Sprintf in order: summaries,
// full entries, question.
const qaPrompt = `你是一个私人日记助手。根据以下日记内容回答用户的问题。
只基于提供的日记内容回答，不要编造信息。如果日记中没有相关信息，请如实说明。
回答要简洁、准确，保持友好的语气。

## 相关日记摘要
%s

## 详细日记内容
%s

## 用户问题
%s

请回答：`

// tokenizePrompt asks the model to split a question into search keywords.
const tokenizePrompt = `请从以下问题中提取关键词，用于搜索日记。
只输出关键词，用空格分隔，不要输出其他内容。
关键词应该是名词、动词、地名、人名等实体词，忽略“的、了、吗、呢”等虚词。

问题：%s

关键词：`
