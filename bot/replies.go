package bot

const productName = "Vignan's eCAP Bot"

var (
	cancelKeyboard   = Keyboard{{{Label: "❌ Cancel", Action: ActionBackToMenu}}}
	mainMenuKeyboard = Keyboard{{{Label: "🏠 Main Menu", Action: ActionBackToMenu}}}
	backKeyboard     = Keyboard{{{Label: "🏠 Back to Menu", Action: ActionBackToMenu}}}
)

func menuKeyboard(hasCredential bool) Keyboard {
	if hasCredential {
		return Keyboard{
			{{Label: "📊 Check My Attendance", Action: ActionCheckSaved}},
			{{Label: "🔍 Quick Check", Action: ActionQuickCheck}},
			{
				{Label: "⚙️ Update Credentials", Action: ActionUpdateCreds},
				{Label: "🗑️ Remove Account", Action: ActionRemoveAccount},
			},
		}
	}
	return Keyboard{
		{{Label: "💾 Save Credentials", Action: ActionSaveCreds}},
		{{Label: "🔍 Quick Check", Action: ActionQuickCheck}},
	}
}

func welcomeReply(hasCredential bool) Reply {
	status := "📝 <b>Let's get started!</b> Please save your credentials to begin tracking your attendance. 👇"
	if hasCredential {
		status = "✅ <b>Your credentials are already saved!</b> You can check your latest attendance report right away. 👇"
	}
	return Reply{
		Text: "🏫 <b>Welcome to " + productName + "!</b>\n\n" +
			"I'm here to help you track your class attendance with ease and clarity 📊.\n\n" + status,
		Keyboard: menuKeyboard(hasCredential),
	}
}

func menuReply(hasCredential bool) Reply {
	status := "📝 <b>Ready to help you check attendance</b>"
	if hasCredential {
		status = "✅ <b>Credentials saved and ready to use</b>"
	}
	return Reply{
		Text:     "🎓 <b>" + productName + "</b>\n\n" + status,
		Keyboard: menuKeyboard(hasCredential),
	}
}

var (
	noSavedReply = Reply{
		Text: "❌ <b>No saved credentials found!</b>\n\nPlease save your credentials first.",
		Keyboard: Keyboard{
			{{Label: "💾 Save Credentials", Action: ActionSaveCreds}},
			{{Label: "🏠 Back to Menu", Action: ActionBackToMenu}},
		},
	}
	checkingSavedReply = Reply{Text: "🔄 <b>Checking your attendance...</b>"}
	checkingReply      = Reply{Text: "🔄 <b>Checking attendance...</b>"}

	askUsernameReply = Reply{
		Text:     "👤 <b>Please enter your username or student ID</b>:",
		Keyboard: cancelKeyboard,
	}
	askNewUsernameReply = Reply{
		Text:     "⚙️ <b>Update Credentials</b>\n\nPlease enter your new <b>username/student ID</b>:",
		Keyboard: cancelKeyboard,
	}
	askQuickUsernameReply = Reply{
		Text:     "🔍 <b>Quick Attendance Check</b>\n\nPlease enter your <b>username/student ID</b>:",
		Keyboard: cancelKeyboard,
	}
	askPasswordReply = Reply{
		Text:     "🔐 <b>Now enter your password</b>:",
		Keyboard: cancelKeyboard,
	}
	savedReply = Reply{
		Text: "✅ <b>Credentials Saved Successfully!</b>\n\n" +
			"⚠️ <b>Security Note</b>: Your credentials are stored securely.\n\n" +
			"You can now check your attendance easily!",
		Keyboard: Keyboard{
			{{Label: "📊 Check Attendance Now", Action: ActionCheckSaved}},
			{{Label: "🏠 Main Menu", Action: ActionBackToMenu}},
		},
	}
	confirmRemoveReply = Reply{
		Text: "🗑️ <b>Remove Account</b>\n\nAre you sure you want to remove your saved credentials?",
		Keyboard: Keyboard{
			{{Label: "✅ Yes, Remove", Action: ActionConfirmRemove}},
			{{Label: "❌ Cancel", Action: ActionBackToMenu}},
		},
	}
	removedReply = Reply{
		Text:     "✅ <b>Account Removed Successfully</b>\n\nYour credentials have been deleted.",
		Keyboard: backKeyboard,
	}
	quickTipReply = Reply{
		Text: "💡 <b>Tip</b>: Save your credentials for faster access next time!",
		Keyboard: Keyboard{
			{{Label: "💾 Save These Credentials", Action: ActionSaveCreds}},
			{{Label: "🏠 Main Menu", Action: ActionBackToMenu}},
		},
	}
	idleReply = Reply{
		Text:     "👋 Use /start to access the main menu and check your attendance!",
		Keyboard: Keyboard{{{Label: "🎓 Open Main Menu", Action: ActionBackToMenu}}},
	}
	expiredReply = Reply{
		Text:     "⏰ <b>Session expired!</b> Please start over.",
		Keyboard: mainMenuKeyboard,
	}
	unexpectedReply = Reply{
		Text:     "❌ <b>Unexpected input!</b> Please follow the prompts or start over.",
		Keyboard: mainMenuKeyboard,
	}
)

func reportReply(text string) Reply {
	return Reply{
		Text: text,
		Keyboard: Keyboard{
			{{Label: "🔄 Refresh", Action: ActionCheckSaved}},
			{{Label: "🏠 Back to Menu", Action: ActionBackToMenu}},
		},
	}
}

func failureReply(text string) Reply {
	return Reply{
		Text: text,
		Keyboard: Keyboard{
			{{Label: "🔄 Try Again", Action: ActionCheckSaved}},
			{{Label: "🏠 Back to Menu", Action: ActionBackToMenu}},
		},
	}
}

func storeFailureReply(message string) Reply {
	return Reply{
		Text:     "❌ <b>Something went wrong!</b> " + message,
		Keyboard: mainMenuKeyboard,
	}
}
