package chat

import "github.com/futig/support-bot/internal/entity"

// toHistoryDTO converts stored messages to the public history representation
func toHistoryDTO(messages []*entity.Message) []entity.HistoryItemDTO {
	items := make([]entity.HistoryItemDTO, 0, len(messages))
	for _, msg := range messages {
		items = append(items, entity.HistoryItemDTO{
			Sender:  msg.Sender,
			Message: msg.Message,
		})
	}
	return items
}
