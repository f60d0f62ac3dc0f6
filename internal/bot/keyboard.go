package bot

import tele "gopkg.in/telebot.v3"

// mainMenu is the two-column reply keyboard shown with every prompt.
func mainMenu() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(
		menu.Row(menu.Text(LabelOneEvent), menu.Text(LabelFiveEvents)),
		menu.Row(menu.Text(LabelTenEvents), menu.Text(LabelHelp)),
	)
	return menu
}
