package messenger

import "github.com/vcampelo/zaporder/internal/driver"

// Selector fallback chains for the messaging site. Order matters: the
// leading candidates are the current accessible-name selectors, the tail
// holds legacy and positional fallbacks kept for resilience against
// partial site changes.

var newChatCandidates = []driver.Candidate{
	{Strategy: driver.XPath, Expr: `//*[@aria-label="Nova conversa"]`},
	{Strategy: driver.XPath, Expr: `//*[@aria-label="New chat"]`},
	{Strategy: driver.XPath, Expr: `//*[@data-testid="new-chat-button"]`},
	{Strategy: driver.XPath, Expr: `//div[@title="Nova conversa"]`},
	{Strategy: driver.XPath, Expr: `//div[@title="New chat"]`},
}

var searchBoxCandidates = []driver.Candidate{
	{Strategy: driver.XPath, Expr: `//*[@aria-label="Pesquisar nome ou número"]`},
	{Strategy: driver.XPath, Expr: `//*[@aria-label="Search name or number"]`},
	{Strategy: driver.XPath, Expr: `//div[@contenteditable="true"][@data-tab="3"]`},
}

// chatRowCandidate matches the search result row by exact display-name
// equality against the formatted contact.
func chatRowCandidate(formatted string) driver.Candidate {
	return driver.Candidate{Strategy: driver.XPath, Expr: `//span[@title="` + formatted + `"]`}
}

// altChatRowCandidate is the position-based locator for the same logical
// row, used once when the semantic row's click is intercepted by an overlay.
var altChatRowCandidate = driver.Candidate{
	Strategy: driver.XPath,
	Expr:     `//*[@id="app"]/div/div[3]/div/div[2]/div[1]/span/div/span/div/div[2]/div[3]/div[2]/div[1]/div/span`,
}

var backButtonCandidates = []driver.Candidate{
	{Strategy: driver.XPath, Expr: `//div[@aria-label="Voltar"]`},
	{Strategy: driver.XPath, Expr: `//div[@aria-label="Back"]`},
}

// messageBubbleCandidates locate every message bubble in the open chat.
var messageBubbleCandidates = []driver.Candidate{
	{Strategy: driver.Class, Expr: "copyable-area"},
}

var inputBoxCandidates = []driver.Candidate{
	{Strategy: driver.XPath, Expr: `//div[@contenteditable="true"][@data-tab="10"]`},
	{Strategy: driver.XPath, Expr: `//div[@role="textbox"]`},
	{Strategy: driver.XPath, Expr: `//*[@contenteditable="true"]`},
}
