package ai

import (
	"fmt"
	"strings"

	"github.com/dasgddadqw231/shindy-backend/internal/model/persona"
	"github.com/dasgddadqw231/shindy-backend/internal/model/profile"
)

// BuildInstruction renders the persona configuration sent to the provider
// once per session: the user's profile attributes interpolated into the
// coach's prompt template.
func BuildInstruction(p persona.Persona, prof profile.Profile) string {
	children := "없음"
	if prof.HasChildren {
		children = "있음"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "사용자 프로필:\n")
	fmt.Fprintf(&b, "- 닉네임: %s\n", prof.Nickname)
	fmt.Fprintf(&b, "- 나이: %d\n", prof.Age)
	fmt.Fprintf(&b, "- 결혼 연차: %d년\n", prof.MarriageYears)
	fmt.Fprintf(&b, "- 자녀: %s\n", children)
	fmt.Fprintf(&b, "- 관계 상태: %s\n", prof.RelationshipStatus)
	fmt.Fprintf(&b, "- 주요 고민: %s\n", strings.Join(prof.Issues, ", "))
	fmt.Fprintf(&b, "- 목표: %s\n", strings.Join(prof.Goals, ", "))

	fmt.Fprintf(&b, "\n당신은 '%s'(%s) 코치입니다.\n", p.Name, p.Title)
	fmt.Fprintf(&b, "말투: %s\n", p.Tone)
	fmt.Fprintf(&b, "역할: %s\n", p.PromptHint)
	if len(p.Traits) > 0 {
		fmt.Fprintf(&b, "성격: %s\n", strings.Join(p.Traits, ", "))
	}

	b.WriteString("\n현재 과제: 선택된 코치로서 사용자의 관계 고민을 도와주세요. 항상 캐릭터를 유지하고 한국어로 답변하세요.")
	return b.String()
}
