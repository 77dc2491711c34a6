package domain

import (
	"fmt"
	"strings"
)

// Prefecture is one area of the selector page and its prec_no.
type Prefecture struct {
	Name   string
	PrecNo string
}

// Prefectures lists the selector areas in page order. Hokkaido is split into
// sub-prefectural regions.
var Prefectures = []Prefecture{
	{Name: "宗谷地方", PrecNo: "11"},
	{Name: "上川地方", PrecNo: "12"},
	{Name: "留萌地方", PrecNo: "13"},
	{Name: "石狩地方", PrecNo: "14"},
	{Name: "空知地方", PrecNo: "15"},
	{Name: "後志地方", PrecNo: "16"},
	{Name: "網走・北見・紋別地方", PrecNo: "17"},
	{Name: "根室地方", PrecNo: "18"},
	{Name: "釧路地方", PrecNo: "19"},
	{Name: "十勝地方", PrecNo: "20"},
	{Name: "胆振地方", PrecNo: "21"},
	{Name: "日高地方", PrecNo: "22"},
	{Name: "渡島地方", PrecNo: "23"},
	{Name: "檜山地方", PrecNo: "24"},
	{Name: "青森県", PrecNo: "31"},
	{Name: "秋田県", PrecNo: "32"},
	{Name: "岩手県", PrecNo: "33"},
	{Name: "宮城県", PrecNo: "34"},
	{Name: "山形県", PrecNo: "35"},
	{Name: "福島県", PrecNo: "36"},
	{Name: "茨城県", PrecNo: "40"},
	{Name: "栃木県", PrecNo: "41"},
	{Name: "群馬県", PrecNo: "42"},
	{Name: "埼玉県", PrecNo: "43"},
	{Name: "東京都", PrecNo: "44"},
	{Name: "千葉県", PrecNo: "45"},
	{Name: "神奈川県", PrecNo: "46"},
	{Name: "長野県", PrecNo: "48"},
	{Name: "山梨県", PrecNo: "49"},
	{Name: "静岡県", PrecNo: "50"},
	{Name: "愛知県", PrecNo: "51"},
	{Name: "岐阜県", PrecNo: "52"},
	{Name: "三重県", PrecNo: "53"},
	{Name: "新潟県", PrecNo: "54"},
	{Name: "富山県", PrecNo: "55"},
	{Name: "石川県", PrecNo: "56"},
	{Name: "福井県", PrecNo: "57"},
	{Name: "滋賀県", PrecNo: "60"},
	{Name: "京都府", PrecNo: "61"},
	{Name: "大阪府", PrecNo: "62"},
	{Name: "兵庫県", PrecNo: "63"},
	{Name: "奈良県", PrecNo: "64"},
	{Name: "和歌山県", PrecNo: "65"},
	{Name: "岡山県", PrecNo: "66"},
	{Name: "広島県", PrecNo: "67"},
	{Name: "島根県", PrecNo: "68"},
	{Name: "鳥取県", PrecNo: "69"},
	{Name: "徳島県", PrecNo: "71"},
	{Name: "香川県", PrecNo: "72"},
	{Name: "愛媛県", PrecNo: "73"},
	{Name: "高知県", PrecNo: "74"},
	{Name: "山口県", PrecNo: "81"},
	{Name: "福岡県", PrecNo: "82"},
	{Name: "大分県", PrecNo: "83"},
	{Name: "長崎県", PrecNo: "84"},
	{Name: "佐賀県", PrecNo: "85"},
	{Name: "熊本県", PrecNo: "86"},
	{Name: "宮崎県", PrecNo: "87"},
	{Name: "鹿児島県", PrecNo: "88"},
	{Name: "沖縄県", PrecNo: "91"},
	{Name: "南極", PrecNo: "99"},
}

// PrecNoFor resolves a prefecture name or a literal prec_no.
func PrecNoFor(nameOrNo string) (string, error) {
	s := strings.TrimSpace(nameOrNo)
	for _, p := range Prefectures {
		if p.Name == s || p.PrecNo == s {
			return p.PrecNo, nil
		}
	}
	return "", fmt.Errorf("%w: prefecture %q", ErrNotFound, nameOrNo)
}
