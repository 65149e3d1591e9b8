package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/fazendarp/stashbot/internal/pipeline"
	"github.com/fazendarp/stashbot/pkg/enums"
)

const (
	buttonPrefix = "movement:"
	pickerPrefix = "pick:"
	modalID      = "qty"

	registrationPrompt = "Clique em um botão para registrar:"
	pickerPlaceholder  = "Selecione os itens"
)

// directionButtons builds the two entry buttons posted in registration
// channels.
func directionButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "✅ Entrada",
					Style:    discordgo.SuccessButton,
					CustomID: buttonPrefix + string(enums.DirectionIn),
				},
				discordgo.Button{
					Label:    "❌ Saída",
					Style:    discordgo.DangerButton,
					CustomID: buttonPrefix + string(enums.DirectionOut),
				},
			},
		},
	}
}

// pickerComponents renders the item select menu for a started flow.
func pickerComponents(picker pipeline.Picker) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(picker.Options))
	for _, item := range picker.Options {
		options = append(options, discordgo.SelectMenuOption{Label: item, Value: item})
	}
	minValues := picker.MinValues
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    pickerPrefix + string(picker.Direction),
					Placeholder: pickerPlaceholder,
					MinValues:   &minValues,
					MaxValues:   picker.MaxValues,
					Options:     options,
				},
			},
		},
	}
}

// modalComponents renders one short text input per selected item.
func modalComponents(form pipeline.QuantityForm) []discordgo.MessageComponent {
	rows := make([]discordgo.MessageComponent, 0, len(form.Items))
	for _, item := range form.Items {
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID: item,
					Label:    fmt.Sprintf("Quantidade de %s", item),
					Style:    discordgo.TextInputShort,
					Required: true,
				},
			},
		})
	}
	return rows
}

// parseDirectionID extracts the direction from a component custom id.
func parseDirectionID(customID, prefix string) (enums.Direction, bool) {
	if !strings.HasPrefix(customID, prefix) {
		return "", false
	}
	direction, err := enums.ParseDirection(strings.TrimPrefix(customID, prefix))
	if err != nil {
		return "", false
	}
	return direction, true
}

// modalFields flattens a modal submission into item name to raw text.
func modalFields(data discordgo.ModalSubmitInteractionData) map[string]string {
	fields := make(map[string]string)
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, component := range actionsRow.Components {
			input, ok := component.(*discordgo.TextInput)
			if !ok {
				continue
			}
			fields[input.CustomID] = input.Value
		}
	}
	return fields
}
