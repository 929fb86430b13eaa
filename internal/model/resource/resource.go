package resource

// Kind distinguishes the unlockable catalogs.
type Kind string

const (
	KindCoach     Kind = "coach"
	KindDiagnosis Kind = "diagnosis"
	KindTraining  Kind = "training"
	KindContent   Kind = "content"
)

// Resource is any unlockable item subject to lock evaluation.
// Free items carry BasePrice 0 and no subscription gate; there are no
// hardcoded always-free identifiers anywhere else.
type Resource struct {
	ID                  string `json:"id"`
	Kind                Kind   `json:"kind"`
	Title               string `json:"title"`
	Description         string `json:"description,omitempty"`
	Category            string `json:"category,omitempty"`
	Duration            string `json:"duration,omitempty"`
	BasePrice           int    `json:"basePrice"`
	GatedBySubscription bool   `json:"gatedBySubscription"`
}

// Seed provides the MVP reference catalog required by the product spec.
func Seed() []Resource {
	return []Resource{
		// Diagnoses
		{ID: "d1", Kind: KindDiagnosis, Title: "부부관계 종합 진단", Description: "5가지 핵심 영역 분석"},
		{ID: "d2", Kind: KindDiagnosis, Title: "갈등 패턴 정밀 분석", Description: "반복되는 싸움의 원인 찾기", BasePrice: 20, GatedBySubscription: true},
		{ID: "d3", Kind: KindDiagnosis, Title: "성인 애착 유형 검사", Description: "나의 애착 유형이 관계에 미치는 영향", BasePrice: 20, GatedBySubscription: true},
		{ID: "d4", Kind: KindDiagnosis, Title: "감정 조절 능력 평가", Description: "나의 감정 그릇 크기는?", BasePrice: 20, GatedBySubscription: true},

		// Training programs
		{ID: "t1", Kind: KindTraining, Title: "7일 감정 관리 루틴", Duration: "7 Days", BasePrice: 30, GatedBySubscription: true},
		{ID: "t2", Kind: KindTraining, Title: "14일 부부 소통 마스터", Duration: "2 Weeks", BasePrice: 50, GatedBySubscription: true},
		{ID: "t3", Kind: KindTraining, Title: "3일 갈등 디톡스", Duration: "3 Days", BasePrice: 20, GatedBySubscription: true},
		{ID: "t4", Kind: KindTraining, Title: "30분 관계 회복 응급처치", Duration: "30 Mins"},

		// Content library
		{ID: "c1", Kind: KindContent, Title: "화내지 않고 내 마음 말하는 3단계 공식", Category: "column"},
		{ID: "c2", Kind: KindContent, Title: "부부싸움 골든타임 30분", Category: "video", Duration: "5:20"},
		{ID: "c3", Kind: KindContent, Title: "권태기 극복을 위한 30일 워크북", Category: "workbook", BasePrice: 50, GatedBySubscription: true},
		{ID: "c4", Kind: KindContent, Title: "배우자의 외도, 그 후의 심리학", Category: "column", BasePrice: 10, GatedBySubscription: true},
		{ID: "c5", Kind: KindContent, Title: "섹스리스 탈출 가이드 (심화)", Category: "workbook", BasePrice: 40, GatedBySubscription: true},
		{ID: "c6", Kind: KindContent, Title: "시댁 스트레스 현명하게 대처하기", Category: "column"},
	}
}
