// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/pdiddy/scicover/pkg/types"
)

// systemPrompt sets up the two writing personas and the JSON-only rule.
const systemPrompt = `You are SciCover, a bilingual science communicator who turns journal
articles into compelling stories for a general audience. You cover the
natural sciences (Science, Nature, Cell) and the social sciences (Political
Geography, International Organization, American Sociological Review).

You write with two personas:
  - Chinese: Traditional Chinese (繁體中文, Taiwan usage). For natural
    science, the lively and accessible voice of 知乎 or 果壳. For social
    science, the analytical voice of 端傳媒 or 澎湃思想市場. Use vivid
    analogies and a conversational tone while staying rigorous.
  - English: for natural science, the narrative style of Quanta Magazine.
    For social science, the analytical style of Foreign Affairs or The
    Atlantic. Favour clarity and precise language.

Rules:
  1. The Chinese and English texts are independent rewrites for their
     audiences, not translations of each other.
  2. Titles should make a curious reader want to click.
  3. Chinese text must use Traditional characters.
  4. Respond with a single valid JSON object only. No markdown fences and
     no commentary.
`

var promptFuncs = template.FuncMap{
	"fallback": func(v, fallback string) string {
		if strings.TrimSpace(v) == "" {
			return fallback
		}
		return v
	},
	"authors": func(a []string) string {
		if len(a) == 0 {
			return "(not available)"
		}
		return strings.Join(a, ", ")
	},
}

// abstractPromptTmpl is used when only the abstract is available.
var abstractPromptTmpl = template.Must(template.New("abstract").Funcs(promptFuncs).Parse(`Summarise the following journal article in BOTH Chinese and English.

=== Source ===

Journal:       {{.Journal}}
Volume/Issue:  Vol. {{fallback .Volume "—"}}, No. {{fallback .Issue "—"}}
Date:          {{fallback .Date "—"}}

Cover description:
{{fallback .CoverDescription "(not available)"}}

Article title:
{{fallback .Title "(not available)"}}

Authors:
{{authors .Authors}}

Abstract:
{{fallback .Abstract "(not available)"}}

=== Output ===

Return a JSON object with exactly this structure and no other keys:

{
  "title":   {"zh": "引人入勝的繁體中文標題", "en": "Compelling English Title"},
  "summary": {"zh": "繁體中文摘要（2–4 段）", "en": "English summary (2–4 paragraphs)"}
}
`))

// fullTextPromptTmpl is used when the article body was retrieved.
var fullTextPromptTmpl = template.Must(template.New("fulltext").Funcs(promptFuncs).Parse(`You have the FULL TEXT of the following journal article. Read it carefully
and write a structured bilingual summary.

=== Source ===

Journal:       {{.Journal}}
Volume/Issue:  Vol. {{fallback .Volume "—"}}, No. {{fallback .Issue "—"}}
Date:          {{fallback .Date "—"}}

Article title:
{{fallback .Title "(not available)"}}

Authors:
{{authors .Authors}}

Cover description:
{{fallback .CoverDescription "(not available)"}}

=== Full text (may be truncated) ===

{{.FullText}}

=== Instructions ===

Write a four-part summary in BOTH Chinese and English.

Chinese sections, with these exact headers:
【總結】核心發現或主張的簡短概述。
【研究問題】文章探討什麼問題？為什麼重要？
【研究方法】作者使用了哪些方法、資料或理論框架？
【結果】主要發現是什麼？有什麼意義？

English sections, with these exact bold headers:
**Summary:** the core finding or argument.
**Problem:** the question addressed and why it matters.
**Approach:** the methods, data, or theoretical framework.
**Results:** the key findings and what they mean.

Each section is 2–4 sentences. Be specific: include key numbers, names,
and concrete details.

=== Output ===

Return a JSON object with exactly this structure and no other keys:

{
  "title":   {"zh": "引人入勝的繁體中文標題", "en": "Compelling English Title"},
  "summary": {
    "zh": "【總結】...\n\n【研究問題】...\n\n【研究方法】...\n\n【結果】...",
    "en": "**Summary:** ...\n\n**Problem:** ...\n\n**Approach:** ...\n\n**Results:** ..."
  }
}
`))

// renderUserPrompt picks the template by request mode and executes it.
func renderUserPrompt(req Request) (string, error) {
	tmpl := abstractPromptTmpl
	if req.Mode() == types.ModeFullText {
		tmpl = fullTextPromptTmpl
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
