package ai

import (
	"fmt"

	"github.com/gschargev/giftdesk/internal/domain"
)

// GreetingPrompt builds the prompt for a holiday thank-you message addressed
// to a specific client contact. Output is requested as plain text so it can
// be pasted straight into a messenger or card.
func GreetingPrompt(clientName, company, position string, holiday domain.Holiday) string {
	return fmt.Sprintf(`
    거래처 담당자에게 보낼 %s 감사 인사말을 작성해줘.
    수신자 정보: %s %s %s님.
    비즈니스적으로 예의 바르면서도 너무 딱딱하지 않은 한국어 톤앤매너로 작성해줘.
    결과는 JSON 형식이 아닌 일반 텍스트로 바로 사용할 수 있게 줘.
  `, holiday, company, position, clientName)
}

// SuggestionPrompt builds the prompt for gift ideas matched to a client
// category and holiday.
func SuggestionPrompt(category domain.ClientCategory, holiday domain.Holiday) string {
	return fmt.Sprintf(`
    비즈니스 거래처(%s 등급)를 위한 %s 선물 아이템 5가지를 추천해줘.
    각 아이템별로 대략적인 가격대와 추천 이유를 포함해줘.
  `, category, holiday)
}
