// Package meet creates Google Meet spaces through the Meet REST API v2.
//
// Each call authenticates with a caller-supplied bearer token. The token is
// wrapped in a static oauth2 token source, so it is never refreshed here; callers
// obtain fresh tokens through the google package.
//
// Example usage:
//
//	client := meet.NewClient(meet.Options{Timeout: 15 * time.Second})
//	space, err := client.CreateMeetSpace(ctx, accessToken)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(space.MeetingURI)
package meet
