/*
Package ddb persists snapshots in a single DynamoDB table.

Each kind owns one partition:

	PK = SNAPSHOT#<kind>, SK = META              header: version, kind, savedAt, count
	PK = SNAPSHOT#<kind>, SK = ITEM#0000000000   first entity, JSON in Payload
	PK = SNAPSHOT#<kind>, SK = ITEM#0000000001   ...

Zero-padded sort keys make a forward Query return entities in saved order.
The table needs a string partition key PK and a string sort key SK.
*/
package ddb
