package bot

const msgHelp = `👋 I am the staff training bot.

**Training**
/trainme <role> — start the onboarding walkthrough
/quiz <role> — take the certification quiz
/retake <role> — retake a failed quiz
/scenarios <role> — practice branching scenarios

**Progress**
/myprogress — your training status
/trainingpath — the full path and your next step
/review <role> — review quiz material
/resources <role> — role resources
/faq [role] — frequently asked questions
/roleinfo <role> — role details

**Community**
/leaderboard — top certified members
/staffstats — certification statistics
/jobs [page] — open vacancies
/vacancies — vacancy commands

Roles: support, admin, slt.`

const msgUnknownCommand = `Unknown command. Use /help to see what I can do.`

const msgUnknownRole = `Unknown role. Valid roles: support, admin, slt.`

const msgRoleRequired = `Please specify a role, e.g. /trainme support.`

const msgNoContent = `No training content is configured for this role yet.`

const msgNoQuiz = `No quiz is configured for this role yet.`

const msgNoQuizSession = `You have no active quiz. Start one with /quiz <role>.`

const msgNoScenarios = `No scenarios are configured for this role yet.`

const msgUnknownScenario = `That scenario is no longer available. Start over with /scenarios <role>.`

const msgNoTrainingSession = `You have no active training session. Start one with /trainme <role>.`

const msgInternalError = `Something went wrong on my side. Please try again later.`

const msgNotAdmin = `This command is available to administrators only.`

const msgAnnounceChatNotSet = `The announcement channel is not configured. Set it with /setannounce <chat_id>.`

const msgVacancyChatNotSet = `The vacancy channel is not configured. Set it with /setvacancychat <chat_id>.`

const msgVacancyNotFound = `Vacancy not found. Check the id with /jobs.`

const msgVacancyPageInvalid = `That page does not exist.`

const msgAlreadyApplied = `You have already applied to this vacancy.`

const msgFeedbackThanks = `Thank you! Your feedback has been passed to the team.`

const msgFeedbackEmpty = `Please include your feedback text, e.g. /feedback the quiz was too easy.`
