package tools

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AddFirestoreDocument creates a document with a backend-assigned id and
// returns that id.
func AddFirestoreDocument(c context.Context, client *firestore.Client, collection string, data map[string]interface{}) (string, error) {
	docRef, _, err := client.Collection(collection).Add(c, data)
	if err != nil {
		return "", err
	}

	return docRef.ID, nil
}

// UpdateFirestoreDocument merges the given fields into an existing document.
func UpdateFirestoreDocument(c context.Context, client *firestore.Client, collection, documentName string, data map[string]interface{}) error {
	docRef := client.Collection(collection).Doc(documentName)

	_, err := docRef.Set(c, data, firestore.MergeAll)

	return err
}

// SetFirestoreDocument writes a document under a caller-chosen id,
// replacing any previous contents.
func SetFirestoreDocument(c context.Context, client *firestore.Client, collection, documentName string, data map[string]interface{}) error {
	docRef := client.Collection(collection).Doc(documentName)

	_, err := docRef.Set(c, data)

	return err
}

// GetFirestoreDocument returns the document's data, or nil without error
// when the document does not exist.
func GetFirestoreDocument(c context.Context, client *firestore.Client, collection, documentName string) (map[string]interface{}, error) {
	docRef := client.Collection(collection).Doc(documentName)

	doc, err := docRef.Get(c)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	return doc.Data(), nil
}

func DeleteFirestoreDocument(c context.Context, client *firestore.Client, collection, documentName string) error {
	docRef := client.Collection(collection).Doc(documentName)

	_, err := docRef.Delete(c)

	return err
}
