package model

import "time"

// DrugTest は薬物検査の記録を表す。
type DrugTest struct {
	ID             string
	UserID         string
	TestDate       time.Time
	TestType       string // urinalysis, breathalyzer, blood, hair
	Result         string // negative, positive, dilute, invalid
	AdministeredBy string
	Notes          string
	CreatedAt      time.Time
}

// Meeting はミーティング出席の記録を表す。
type Meeting struct {
	ID          string
	UserID      string
	MeetingDate time.Time
	MeetingType string
	Attended    bool
	Notes       string
	RecordedBy  string
	CreatedAt   time.Time
}

// RentPayment は家賃支払いの記録を表す。
// 入居者が申告し、メンターまたは管理者が確認する。
type RentPayment struct {
	ID               string
	UserID           string
	PaymentDate      time.Time
	Amount           float64
	Confirmed        bool
	ConfirmedBy      string
	ConfirmationDate *time.Time
	Notes            string
	CreatedAt        time.Time
}

// Devotion は管理者が発行するデボーション（日々の黙想）を表す。
type Devotion struct {
	ID                 string
	Title              string
	Content            string
	ScriptureReference string
	AuthorID           string
	CreatedAt          time.Time
}

// ReadingMaterial は推薦読書資料を表す。
type ReadingMaterial struct {
	ID          string
	Title       string
	Author      string
	Description string
	Category    string
	Link        string
	AddedBy     string
	CreatedAt   time.Time
}

// RecipientKind はメッセージ宛先の種別を表す。
type RecipientKind string

const (
	// RecipientDirect は特定ユーザー宛のメッセージを示す。
	RecipientDirect RecipientKind = "direct"
	// RecipientBroadcast は全員宛のメッセージを示す。
	RecipientBroadcast RecipientKind = "broadcast"
)

// MessageRecipient はメッセージの宛先。書き込み時に一度だけ解決される
// タグ付きバリアントで、direct の場合のみUserIDを持つ。
type MessageRecipient struct {
	Kind   RecipientKind
	UserID string
}

// DirectRecipient は特定ユーザー宛の宛先を返す。
func DirectRecipient(userID string) MessageRecipient {
	return MessageRecipient{Kind: RecipientDirect, UserID: userID}
}

// BroadcastRecipient は全員宛の宛先を返す。
func BroadcastRecipient() MessageRecipient {
	return MessageRecipient{Kind: RecipientBroadcast}
}

// Message は内部メッセージを表す。
type Message struct {
	ID        string
	SenderID  string
	Recipient MessageRecipient
	Content   string
	Read      bool
	CreatedAt time.Time
}

// CalendarEvent はハウスのカレンダーイベントを表す。
type CalendarEvent struct {
	ID          string
	Title       string
	Description string
	EventDate   time.Time
	EventType   string
	Location    string
	CreatedBy   string
	CreatedAt   time.Time
}
