package services

// Services defined in this package:
// - AuthService: registration, login, token refresh and profile
// - ChoirService: choir lifecycle, settings, holiday calendar
// - MemberService: members, membership periods and leaves
// - EventService: events, recurring series and attendance
// - ListOfValueService: tenant taxonomy with diagnostics
// - ImportService: spreadsheet member import with voice mapping
// - RegistryService: Brønnøysund organization lookups
