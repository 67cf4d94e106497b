//go:build component
// +build component

package component

func (s *ComponentTestSuite) TestProfilesAndMatches() {
	given, _, then := s.gherkin()

	given().
		twoRegisteredUsers()

	then().
		theProfileCanBeReadBack().
		matchesForAliceContainBobWithAScore()
}

func (s *ComponentTestSuite) TestRoomLifecycle() {
	given, when, then := s.gherkin()

	given().
		twoRegisteredUsers()

	when().
		bothUsersJoinedTheSameRoom()

	then().
		roomMembershipIsVisible().
		roomMatchesForAliceListOnlyBob().
		aMessageIsPostedAndListed()
}

func (s *ComponentTestSuite) TestConnectionLifecycle() {
	given, when, then := s.gherkin()

	given().
		twoRegisteredUsers().
		bothUsersJoinedTheSameRoom()

	when().
		aliceRequestsAConnectionWithBob()

	then().
		repeatingTheRequestDoesNotCreateASecondConnection().
		anEventForTheConnectionCreationWillEventuallyBeProduced().
		bobAcceptsTheConnection().
		theConnectionStatusIsAccepted().
		bothUsersSeeTheConnectionListed().
		anEventForTheConnectionAcceptanceWillEventuallyBeProduced()
}
