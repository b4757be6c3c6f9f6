package card

import (
	"fmt"
	"strings"
)

// Card 牌枚举
//
// 编码规则:
// - 高4位: 花色 (0:Spade, 1:Heart, 2:Club, 3:Diamond)
// - 低4位: 点数 (1:A, 2..9, 10:T, 11:J, 12:Q, 13:K)
type Card byte

const CardInvalid Card = 0

const rankChars = "A23456789TJQK"

// String renders the hand-history notation, e.g. "Ah", "Td", "9s".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return string([]byte{rankChars[c.Rank()-1], c.Suit().Letter()})
}

// Rank 获取牌面值 1-13 (A=1, K=13)
func (c Card) Rank() byte {
	return byte(c & 0x0F)
}

// Suit 花色 (0:Spades, 1:Hearts, 2:Clubs, 3:Diamonds)
func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

func (c Card) Valid() bool {
	r := c.Rank()
	return r >= 1 && r <= 13 && c.Suit() <= Diamond
}

func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid card value 0x%02x", byte(c))
	}
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse 将字符串 (如 "As", "Td", "10h") 转换为 Card
func Parse(cardStr string) (Card, error) {
	cardStr = strings.TrimSpace(cardStr)
	if len(cardStr) < 2 {
		return CardInvalid, fmt.Errorf("invalid card string: %q", cardStr)
	}

	suit, ok := suitFromLetter(cardStr[len(cardStr)-1])
	if !ok {
		return CardInvalid, fmt.Errorf("invalid suit: %c", cardStr[len(cardStr)-1])
	}

	rankStr := strings.ToUpper(cardStr[:len(cardStr)-1])
	if rankStr == "10" {
		rankStr = "T"
	}
	if len(rankStr) != 1 {
		return CardInvalid, fmt.Errorf("invalid rank: %s", rankStr)
	}
	idx := strings.IndexByte(rankChars, rankStr[0])
	if idx < 0 {
		return CardInvalid, fmt.Errorf("invalid rank: %s", rankStr)
	}
	return Card(byte(suit)<<4 | byte(idx+1)), nil
}
